// Package privacy scrubs personal data and credentials from text before it
// leaves the host, e.g. in telemetry events. Researcher e-mail addresses and
// database or bucket URLs are the typical payloads.
package privacy

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`\b(?:https?|s3|mysql|postgres(?:ql)?|redis|rediss)://\S+`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// key=value connection strings as used by the postgres driver
	passwordPattern = regexp.MustCompile(`(?i)\b(password|pwd)=\S+`)
	// user:pass@tcp(host) as used by the mysql driver
	mysqlDSNPattern = regexp.MustCompile(`\w+:[^@\s]+@tcp\(`)
	ipv4Pattern     = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
)

// EmailPlaceholder replaces every e-mail address.
const EmailPlaceholder = "[email]"

// ScrubMessage anonymizes URLs, removes e-mail addresses and masks
// password=... pairs in message.
func ScrubMessage(message string) string {
	message = urlPattern.ReplaceAllStringFunc(message, AnonymizeURL)
	message = mysqlDSNPattern.ReplaceAllString(message, "[redacted]@tcp(")
	message = emailPattern.ReplaceAllString(message, EmailPlaceholder)
	return passwordPattern.ReplaceAllString(message, "$1=[redacted]")
}

// AnonymizeURL replaces rawURL with a stable token. Equal scheme, host
// category, port and path shape give the same token, so grouped errors stay
// grouped while hosts, credentials and object keys are dropped.
func AnonymizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		hash := sha256.Sum256([]byte(rawURL))
		return fmt.Sprintf("url-hash-%x", hash[:8])
	}

	var parts []string
	if parsed.Scheme != "" {
		parts = append(parts, parsed.Scheme)
	}
	if host := parsed.Hostname(); host != "" {
		parts = append(parts, categorizeHost(host))
	}
	if parsed.Port() != "" {
		parts = append(parts, "port-"+parsed.Port())
	}
	if parsed.Path != "" && parsed.Path != "/" {
		parts = append(parts, anonymizePath(parsed.Path))
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s://url-%x", parsed.Scheme, hash[:12])
}

func categorizeHost(host string) string {
	switch {
	case host == "localhost" || host == "127.0.0.1" || host == "::1":
		return "localhost"
	case isPrivateIP(host):
		return "private-ip"
	case ipv4Pattern.MatchString(host) || strings.Contains(host, ":"):
		return "public-ip"
	}
	if i := strings.LastIndex(host, "."); i >= 0 {
		return "domain-" + host[i+1:]
	}
	return "unknown-host"
}

// anonymizePath keeps the number of segments and hashes each one.
func anonymizePath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}
	segments := strings.Split(path, "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		hash := sha256.Sum256([]byte(segment))
		out = append(out, fmt.Sprintf("seg-%x", hash[:4]))
	}
	return strings.Join(out, "/")
}

func isPrivateIP(host string) bool {
	host = strings.ToLower(host)
	for _, prefix := range []string{"10.", "192.168.", "169.254.", "fc00:", "fd00:", "fe80:"} {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	// 172.16.0.0/12
	var second int
	if _, err := fmt.Sscanf(host, "172.%d.", &second); err == nil {
		return second >= 16 && second <= 31
	}
	return false
}
