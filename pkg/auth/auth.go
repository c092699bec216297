// Package auth maps the CLI-level auth-method choice onto a concrete Azure
// token credential. Four strategies share one construction surface; the
// resulting credential is owned by the invocation and is never cached
// across runs.
package auth

import (
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/pkg/errors"
)

type (
	// Method is a supported authentication method.
	Method string

	// ServicePrincipal carries app-registration credentials. Values left
	// empty fall back to the conventional AZURE_* environment variables.
	ServicePrincipal struct {
		ClientID     string
		ClientSecret string
		TenantID     string
	}
)

const (
	// MethodAzCLI reuses the token from `az login`. The default.
	MethodAzCLI Method = "az-cli"

	// MethodInteractive opens a browser-based login.
	MethodInteractive Method = "interactive"

	// MethodManagedIdentity authenticates as the host's managed identity.
	MethodManagedIdentity Method = "managed-identity"

	// MethodServicePrincipal authenticates with an app registration.
	MethodServicePrincipal Method = "service-principal"
)

// Methods lists every supported method, for usage text.
var Methods = []Method{MethodAzCLI, MethodInteractive, MethodManagedIdentity, MethodServicePrincipal}

// ParseMethod validates an --auth-method value.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodAzCLI, MethodInteractive, MethodManagedIdentity, MethodServicePrincipal:
		return Method(s), nil
	default:
		return "", errors.Errorf("unknown auth method: %s", s)
	}
}

// Credential builds a token credential for the chosen method. For
// service-principal auth, all three credentials must be present (flags or
// AZURE_CLIENT_ID/AZURE_CLIENT_SECRET/AZURE_TENANT_ID); missing values are
// reported before anything is constructed and before any network call.
func Credential(method Method, sp ServicePrincipal) (azcore.TokenCredential, error) {
	switch method {
	case MethodAzCLI:
		return azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: sp.TenantID,
		})

	case MethodInteractive:
		return azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{
			TenantID: sp.TenantID,
		})

	case MethodManagedIdentity:
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if sp.ClientID != "" {
			// User-assigned identity.
			opts.ID = azidentity.ClientID(sp.ClientID)
		}
		return azidentity.NewManagedIdentityCredential(opts)

	case MethodServicePrincipal:
		sp = sp.withEnvFallback()
		if err := sp.validate(); err != nil {
			return nil, err
		}
		return azidentity.NewClientSecretCredential(sp.TenantID, sp.ClientID, sp.ClientSecret, nil)

	default:
		return nil, errors.Errorf("unknown auth method: %s", method)
	}
}

func (sp ServicePrincipal) withEnvFallback() ServicePrincipal {
	if sp.ClientID == "" {
		sp.ClientID = os.Getenv("AZURE_CLIENT_ID")
	}
	if sp.ClientSecret == "" {
		sp.ClientSecret = os.Getenv("AZURE_CLIENT_SECRET")
	}
	if sp.TenantID == "" {
		sp.TenantID = os.Getenv("AZURE_TENANT_ID")
	}
	return sp
}

func (sp ServicePrincipal) validate() error {
	if sp.ClientID == "" || sp.ClientSecret == "" || sp.TenantID == "" {
		return errors.New(
			"--client-id, --client-secret, and --tenant-id are required for service-principal auth " +
				"(or set AZURE_CLIENT_ID, AZURE_CLIENT_SECRET, AZURE_TENANT_ID)")
	}
	return nil
}
