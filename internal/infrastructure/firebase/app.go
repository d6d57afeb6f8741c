package firebase

import (
	"context"
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewApp initializes the Firebase Admin SDK from a service account file. Without
// a credentials file the SDK falls back to Application Default Credentials.
func NewApp(ctx context.Context, settings config.FirebaseSettings) (*firebase.App, error) {
	cfg := &firebase.Config{
		ProjectID:   settings.ProjectID,
		DatabaseURL: settings.DatabaseURL,
	}

	var opts []option.ClientOption
	if settings.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}
