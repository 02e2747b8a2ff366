// Package auth resolves the configured authentication method into a
// credential for Azure DevOps.
//
// Three methods are supported: a personal access token sent as a Basic
// credential, the default Azure credential chain, and the Azure CLI. The two
// identity methods request bearer tokens for the Azure DevOps audience
// (Scope) through azidentity and refresh them through an
// oauth2.ReuseTokenSource.
package auth
