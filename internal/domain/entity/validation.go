package entity

import (
	"fmt"
	"net"
	"net/url"
)

// maxURLLength defines the maximum allowed length for source URLs.
const maxURLLength = 2048

// ValidateURLSyntax checks that rawURL is a well-formed http or https URL
// with a host. It performs no network lookups.
func ValidateURLSyntax(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: err.Error()}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}
	if parsedURL.Hostname() == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}
	return nil
}

// ValidateURL checks the syntax of rawURL and rejects hosts that resolve to
// private, loopback or link-local addresses, so that a sources file cannot
// point the worker at internal services.
func ValidateURL(rawURL string) error {
	if err := ValidateURLSyntax(rawURL); err != nil {
		return err
	}

	parsedURL, _ := url.Parse(rawURL)
	host := parsedURL.Hostname()

	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else if resolved, err := net.LookupIP(host); err == nil {
		ips = resolved
	}
	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return &ValidationError{
				Field:   "url",
				Message: "url cannot point to private network",
			}
		}
	}
	return nil
}

// privateIPv4Ranges lists blocked IPv4 networks.
var privateIPv4Ranges = func() []*net.IPNet {
	cidrs := []string{
		"10.0.0.0/8",     // Private network
		"172.16.0.0/12",  // Private network
		"192.168.0.0/16", // Private network
		"169.254.0.0/16", // Link-local (includes cloud metadata)
	}
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, subnet, _ := net.ParseCIDR(cidr)
		nets = append(nets, subnet)
	}
	return nets
}()

// IsPrivateIP reports whether ip is loopback, link-local or in a private
// IPv4 range (10/8, 172.16/12, 192.168/16, 169.254/16), or an IPv6
// unique local address.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	for _, subnet := range privateIPv4Ranges {
		if subnet.Contains(ip) {
			return true
		}
	}
	// fc00::/7
	return ip.To4() == nil && len(ip) == net.IPv6len && ip[0]&0xfe == 0xfc
}
