// Package iam exchanges IBM Cloud API keys for IAM bearer tokens and
// provides an http.RoundTripper that attaches them to outgoing requests.
//
// Tokens are cached until shortly before expiry and refreshed on demand.
// A request that still comes back 401 (for example because the token was
// revoked server-side) is retried exactly once against a freshly fetched
// token before the error is returned to the caller.
//
// Example:
//
//	src := iam.NewTokenSource("your-apikey", "https://iam.cloud.ibm.com")
//	client := &http.Client{
//	    Transport: &iam.Transport{
//	        Source: src,
//	        Headers: map[string]string{"Service-CRN": crn},
//	    },
//	}
package iam
