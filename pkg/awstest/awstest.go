// Package awstest points real aws-sdk-go clients at local httptest servers.
package awstest

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

// NewSession returns a session that sends every request to endpoint with
// static credentials and no retries.
func NewSession(t testing.TB, endpoint string) *session.Session {
	t.Helper()

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String("us-east-1"),
		Endpoint:    aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials("AKIDTEST", "SECRETTEST", ""),
		MaxRetries:  aws.Int(0),
	})
	if err != nil {
		t.Fatalf("aws session: %v", err)
	}
	return sess
}
