package v1

import (
	"net/url"

	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/logger"
)

// queryFallback lists, per credential, the query keys accepted in development
type queryFallback struct {
	target *string
	keys   []string
}

// ResolveCredentials fills empty configured values from query parameters when allowQuery
// is set and reports the display names of values still missing, in the order
// api key, api secret, sender, recipient.
func ResolveCredentials(base domain.Credentials, query url.Values, allowQuery bool, names [4]string) (domain.Credentials, []string) {
	creds := base

	fallbacks := [4]queryFallback{
		{target: &creds.APIKey, keys: []string{"MAILJET_API_KEY", "MJ_APIKEY_PUBLIC"}},
		{target: &creds.APISecret, keys: []string{"MAILJET_API_SECRET", "MJ_APIKEY_PRIVATE"}},
		{target: &creds.FromEmail, keys: []string{"MAILJET_FROM"}},
		{target: &creds.ToEmail, keys: []string{"CONTACT_TO"}},
	}

	var missing []string
	for i, fb := range fallbacks {
		if *fb.target == "" && allowQuery {
			for _, key := range fb.keys {
				if value := query.Get(key); value != "" {
					*fb.target = value
					logger.Log.Warn("Using credential from query string for local testing", "key", key)
					break
				}
			}
		}
		if *fb.target == "" {
			missing = append(missing, names[i])
		}
	}

	return creds, missing
}
