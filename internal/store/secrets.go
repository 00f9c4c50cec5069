package store

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{secret}/versions/{version}

type secretsStore struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretsStore(client *secretmanager.Client, projectID string) *secretsStore {
	return &secretsStore{client: client, projectID: projectID}
}

// VersionName expands a bare secret id or a secret resource name to a
// version resource name, defaulting to the latest version.
func VersionName(projectID, secret string) string {
	secret = strings.TrimSpace(secret)
	if !strings.HasPrefix(secret, "projects/") {
		secret = fmt.Sprintf("projects/%s/secrets/%s", projectID, secret)
	}
	if !strings.Contains(secret, "/versions/") {
		secret += "/versions/latest"
	}
	return secret
}

func (s *secretsStore) Get(ctx context.Context, secret string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: VersionName(s.projectID, secret),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", errs.NewNotFoundError("secret not found: " + secret)
		}
		return "", errs.NewDatabaseError("read", "failed to access secret", err)
	}
	return string(res.Payload.Data), nil
}
