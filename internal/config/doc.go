// Package config loads the server settings.
//
// Sources, highest precedence first: command line flags that were set
// explicitly, environment variables, the optional config file (--config,
// any format viper reads), built-in defaults.
//
// Environment variables:
//   - AZURE_DEVOPS_ORG_URL: Organization URL, e.g. https://dev.azure.com/contoso
//   - AZURE_DEVOPS_AUTH_METHOD: static-token (alias pat), service-identity (alias azure-identity) or cli-identity (alias azure-cli)
//   - AZURE_DEVOPS_PAT: Personal access token for static-token authentication
//   - AZURE_DEVOPS_DEFAULT_PROJECT: Project used when a tool call omits projectId
//   - AZURE_DEVOPS_API_VERSION: REST API version (default 7.1)
//
// A missing organization URL or token is not a load error. The server
// starts and reports the problem on the first tool call.
package config
