package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/normalize"
)

// ErrChallenge is returned when the pool demands a further step (new
// password, MFA) that this app does not drive.
var ErrChallenge = errors.New("additional sign-in step required")

// InitiateAuthAPI is the part of the Cognito client used here.
type InitiateAuthAPI interface {
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

type CognitoConfig struct {
	Region       string
	Endpoint     string
	ClientID     string
	ClientSecret string
}

// Cognito verifies passwords against a user pool app client, then maps the
// username (an email) onto the directory.
type Cognito struct {
	api          InitiateAuthAPI
	clientID     string
	clientSecret string
	users        UserLookup
}

// NewCognito loads AWS configuration from the environment.
func NewCognito(ctx context.Context, cfg CognitoConfig, users UserLookup) (*Cognito, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewCognitoWithAPI(client, cfg, users), nil
}

func NewCognitoWithAPI(api InitiateAuthAPI, cfg CognitoConfig, users UserLookup) *Cognito {
	return &Cognito{api: api, clientID: cfg.ClientID, clientSecret: cfg.ClientSecret, users: users}
}

func (c *Cognito) Method() string { return "cognito" }

func (c *Cognito) Authenticate(ctx context.Context, cr Credentials) (*auth.SessionUser, error) {
	email := normalize.Email(cr.Email)
	if email == "" || cr.Password == "" {
		return nil, ErrInvalidCredentials
	}

	params := map[string]string{
		"USERNAME": email,
		"PASSWORD": cr.Password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = SecretHash(email, c.clientID, c.clientSecret)
	}

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.clientID),
		AuthParameters: params,
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		var noUser *types.UserNotFoundException
		if errors.As(err, &notAuth) || errors.As(err, &noUser) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("cognito initiate auth: %w", err)
	}
	if out.AuthenticationResult == nil {
		return nil, ErrChallenge
	}

	u, err := resolve(ctx, c.users, email, ErrUnknownUser)
	if err != nil {
		return nil, err
	}
	return SessionUser(u), nil
}

// SecretHash is base64(HMAC-SHA256(clientSecret, username+clientID)), the
// value Cognito expects from app clients that have a secret.
func SecretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
