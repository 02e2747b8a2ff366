package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"golang.org/x/oauth2"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/logging"
)

// Scope is the token audience of Azure DevOps.
const Scope = "499b84ac-1321-427f-aa17-267ca6975798/.default"

// Config is the credential material for one organization.
type Config struct {
	Method          Method
	OrganizationURL string
	StaticToken     string
}

// Credential authorizes requests to Azure DevOps. Static tokens are sent as
// Basic credentials; identity tokens as Bearer tokens that are re-acquired
// shortly before they expire.
type Credential struct {
	Method Method
	source oauth2.TokenSource
}

// TokenSource returns the source that supplies the Authorization header.
func (c *Credential) TokenSource() oauth2.TokenSource {
	return c.source
}

// ProviderFactory creates an identity provider. It is called once per
// Resolve.
type ProviderFactory func() (azcore.TokenCredential, error)

// Resolver turns a Config into a Credential.
type Resolver struct {
	serviceIdentity ProviderFactory
	cliIdentity     ProviderFactory
	logger          *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithServiceIdentity replaces the provider used for MethodServiceIdentity.
func WithServiceIdentity(f ProviderFactory) Option {
	return func(r *Resolver) {
		r.serviceIdentity = f
	}
}

// WithCLIIdentity replaces the provider used for MethodCLIIdentity.
func WithCLIIdentity(f ProviderFactory) Option {
	return func(r *Resolver) {
		r.cliIdentity = f
	}
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver returns a Resolver backed by the azidentity credential chain
// and the Azure CLI.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		serviceIdentity: func() (azcore.TokenCredential, error) {
			return azidentity.NewDefaultAzureCredential(nil)
		},
		cliIdentity: func() (azcore.TokenCredential, error) {
			return azidentity.NewAzureCLICredential(nil)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve validates cfg and produces a credential. Only the identity methods
// perform I/O.
func (r *Resolver) Resolve(ctx context.Context, cfg Config) (*Credential, error) {
	if cfg.OrganizationURL == "" {
		return nil, azuredevops.NewValidationError("Organization URL is required", nil)
	}

	logger := r.logger.With(logging.AuthMethod(cfg.Method.String()))

	switch cfg.Method {
	case MethodStaticToken:
		if cfg.StaticToken == "" {
			return nil, azuredevops.NewValidationError("Personal Access Token (PAT) is required", nil)
		}
		logger.Debug("using static token", slog.String("token", logging.SanitizeToken(cfg.StaticToken)))
		return &Credential{
			Method: cfg.Method,
			source: oauth2.StaticTokenSource(basicToken(cfg.StaticToken)),
		}, nil

	case MethodServiceIdentity:
		return r.resolveIdentity(ctx, logger, cfg.Method, r.serviceIdentity)

	case MethodCLIIdentity:
		return r.resolveIdentity(ctx, logger, cfg.Method, r.cliIdentity)

	default:
		return nil, azuredevops.NewValidationError(fmt.Sprintf("Unsupported authentication method: %s", cfg.Method), nil)
	}
}

func (r *Resolver) resolveIdentity(ctx context.Context, logger *slog.Logger, method Method, factory ProviderFactory) (*Credential, error) {
	provider, err := factory()
	if err != nil {
		return nil, acquireError(method, err)
	}

	src := &identityTokenSource{
		// The credential outlives the call that resolved it.
		ctx:      context.WithoutCancel(ctx),
		provider: provider,
		method:   method,
	}

	// Acquire eagerly so a broken provider fails the connection attempt.
	first, err := src.fetch(ctx)
	if err != nil {
		logger.Warn("failed to acquire identity token", logging.Err(err))
		return nil, err
	}
	logger.Debug("acquired identity token", slog.Time("expires_on", first.Expiry))

	return &Credential{
		Method: method,
		source: oauth2.ReuseTokenSource(first, src),
	}, nil
}

var errEmptyToken = errors.New("Failed to acquire token")

// identityTokenSource adapts an azcore.TokenCredential to oauth2.TokenSource.
type identityTokenSource struct {
	ctx      context.Context
	provider azcore.TokenCredential
	method   Method
}

func (s *identityTokenSource) Token() (*oauth2.Token, error) {
	return s.fetch(s.ctx)
}

func (s *identityTokenSource) fetch(ctx context.Context) (*oauth2.Token, error) {
	tok, err := s.provider.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{Scope}})
	if err != nil {
		return nil, acquireError(s.method, err)
	}
	if tok.Token == "" {
		return nil, acquireError(s.method, errEmptyToken)
	}
	return &oauth2.Token{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		Expiry:      tok.ExpiresOn,
	}, nil
}

func acquireError(method Method, cause error) error {
	msg := fmt.Sprintf("Failed to acquire %s token: %s", method.providerName(), azuredevops.ErrorMessage(cause))
	err := azuredevops.NewAuthenticationError(msg)
	err.Cause = cause
	return err
}

// basicToken encodes a personal access token the way Azure DevOps expects:
// an empty user name and the token as password.
func basicToken(pat string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: base64.StdEncoding.EncodeToString([]byte(":" + pat)),
		TokenType:   "Basic",
	}
}
