package realtime

import (
	"fmt"
	"strings"
)

const (
	maxSlugLen   = 50
	defaultToken = "default"
)

// slug normalizes a free-form key for use in a topic name: trim,
// lowercase, replace anything outside [0-9A-Za-z._-] with '_', cap the
// length. Distinct keys that survive normalization stay distinct.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9',
			r >= 'a' && r <= 'z',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	if len(out) > maxSlugLen {
		out = out[:maxSlugLen]
	}
	if out == "" {
		return defaultToken
	}
	return out
}

// PoolTopic is the driver-offer channel for a (category, area) pair.
func PoolTopic(category, area string) string {
	return "pool." + slug(category) + "." + slug(area)
}

// DriverTopic is a driver's personal channel.
func DriverTopic(driverID int64) string {
	return fmt.Sprintf("driver.%d", driverID)
}

// CustomerTopic is a customer's personal channel.
func CustomerTopic(customerID int64) string {
	return fmt.Sprintf("customer.%d", customerID)
}

// LegacyCustomerTopic is the channel name older clients still listen
// on. Every customer-addressed event goes to both aliases.
func LegacyCustomerTopic(customerID int64) string {
	return fmt.Sprintf("user.%d", customerID)
}

// CustomerTopics returns both aliases of a customer's personal channel.
func CustomerTopics(customerID int64) []string {
	return []string{CustomerTopic(customerID), LegacyCustomerTopic(customerID)}
}
