package azuredevops

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/accounts"
)

// profileLocationID is the profiles resource. The SDK model drops
// publicAlias, so the profile is decoded into a local type.
var profileLocationID = uuid.MustParse("f83735dc-483f-4238-a291-d45f6080a9af")

const profileAPIVersion = "7.1-preview.3"

// OrganizationClient talks to the profile and accounts endpoints.
type OrganizationClient struct {
	sdk      *ado.Client
	accounts accounts.Client
}

func newOrganizationClient(sdk *ado.Client) *OrganizationClient {
	return &OrganizationClient{
		sdk:      sdk,
		accounts: &accounts.ClientImpl{Client: *sdk},
	}
}

type profile struct {
	ID          string `json:"id"`
	PublicAlias string `json:"publicAlias"`
}

// ListOrganizations resolves the caller's profile and lists the
// organizations it is a member of. Any failure to read the profile is an
// authentication problem.
func (c *OrganizationClient) ListOrganizations(ctx context.Context) ([]Organization, error) {
	me, err := c.profile(ctx)
	if err != nil {
		err = wrapError(err)
		return nil, NewAuthenticationError("Authentication failed: " + ErrorMessage(err)).withCause(err)
	}
	member, err := uuid.Parse(me.PublicAlias)
	if err != nil {
		return nil, NewAuthenticationError("Unable to get user publicAlias from profile")
	}

	res, err := c.accounts.GetAccounts(ctx, accounts.GetAccountsArgs{MemberId: &member})
	if err != nil {
		return nil, wrapError(err)
	}

	orgs := []Organization{}
	if res == nil {
		return orgs, nil
	}
	for _, a := range *res {
		org := Organization{}
		if a.AccountId != nil {
			org.ID = a.AccountId.String()
		}
		if a.AccountName != nil {
			org.Name = *a.AccountName
		}
		if a.AccountUri != nil {
			org.URL = *a.AccountUri
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (c *OrganizationClient) profile(ctx context.Context) (*profile, error) {
	resp, err := c.sdk.Send(ctx, http.MethodGet, profileLocationID, profileAPIVersion,
		map[string]string{"id": "me"}, nil, nil, "", ado.MediaTypeApplicationJson, nil)
	if err != nil {
		return nil, err
	}
	var me profile
	if err := c.sdk.UnmarshalBody(resp, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
