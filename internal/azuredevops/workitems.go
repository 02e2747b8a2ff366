package azuredevops

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// maxBatchSize is the largest number of IDs the batch endpoint accepts.
const maxBatchSize = 200

// WorkItemClient talks to the work item tracking endpoints.
type WorkItemClient struct {
	api workitemtracking.Client
}

func newWorkItemClient(sdk *ado.Client) *WorkItemClient {
	return &WorkItemClient{api: &workitemtracking.ClientImpl{Client: *sdk}}
}

// GetWorkItem returns one work item restricted to fields (all fields when empty).
func (c *WorkItemClient) GetWorkItem(ctx context.Context, id int, fields []string) (*WorkItem, error) {
	res, err := c.api.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:     &id,
		Fields: fieldList(fields),
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(fmt.Sprintf("Work item '%d' not found", id))
		}
		return nil, err
	}
	return convertOne[WorkItem](res)
}

// GetWorkItems fetches work items in batches, preserving the order of ids.
func (c *WorkItemClient) GetWorkItems(ctx context.Context, ids []int, fields []string) ([]WorkItem, error) {
	items := make([]WorkItem, 0, len(ids))
	for start := 0; start < len(ids); start += maxBatchSize {
		batch := ids[start:min(start+maxBatchSize, len(ids))]

		res, err := c.api.GetWorkItems(ctx, workitemtracking.GetWorkItemsArgs{
			Ids:         &batch,
			Fields:      fieldList(fields),
			ErrorPolicy: &workitemtracking.WorkItemErrorPolicyValues.Omit,
		})
		if err != nil {
			return nil, wrapError(err)
		}
		if res == nil {
			continue
		}
		for _, wi := range *res {
			// errorPolicy=omit yields null entries for inaccessible items.
			if wi.Id == nil || *wi.Id == 0 {
				continue
			}
			item, err := convert[WorkItem](wi)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// QueryByWIQL runs an ad-hoc query.
func (c *WorkItemClient) QueryByWIQL(ctx context.Context, team TeamContext, query string) (*WorkItemQueryResult, error) {
	res, err := c.api.QueryByWiql(ctx, workitemtracking.QueryByWiqlArgs{
		Wiql:    &workitemtracking.Wiql{Query: &query},
		Project: optional(team.Project),
		Team:    optional(team.Team),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertOne[WorkItemQueryResult](res)
}

// QueryByID runs a saved query.
func (c *WorkItemClient) QueryByID(ctx context.Context, team TeamContext, queryID string) (*WorkItemQueryResult, error) {
	id, err := uuid.Parse(queryID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("Query ID must be a GUID: %s", queryID), nil)
	}
	res, err := c.api.QueryById(ctx, workitemtracking.QueryByIdArgs{
		Id:      &id,
		Project: optional(team.Project),
		Team:    optional(team.Team),
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(fmt.Sprintf("Query '%s' not found", queryID))
		}
		return nil, err
	}
	return convertOne[WorkItemQueryResult](res)
}

// CreateWorkItem creates a work item of the given type from a JSON patch document.
func (c *WorkItemClient) CreateWorkItem(ctx context.Context, project, workItemType string, patch []JSONPatchOperation) (*WorkItem, error) {
	res, err := c.api.CreateWorkItem(ctx, workitemtracking.CreateWorkItemArgs{
		Document: patchDocument(patch),
		Project:  &project,
		Type:     &workItemType,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertOne[WorkItem](res)
}

// UpdateWorkItem applies a JSON patch document to a work item.
func (c *WorkItemClient) UpdateWorkItem(ctx context.Context, id int, patch []JSONPatchOperation) (*WorkItem, error) {
	res, err := c.api.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Document: patchDocument(patch),
		Id:       &id,
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(fmt.Sprintf("Work item '%d' not found", id))
		}
		return nil, err
	}
	return convertOne[WorkItem](res)
}

func fieldList(fields []string) *[]string {
	if len(fields) == 0 {
		return nil
	}
	return &fields
}

func patchDocument(patch []JSONPatchOperation) *[]webapi.JsonPatchOperation {
	doc := make([]webapi.JsonPatchOperation, 0, len(patch))
	for _, op := range patch {
		doc = append(doc, webapi.JsonPatchOperation{
			Op:    ptr(webapi.Operation(op.Op)),
			Path:  ptr(op.Path),
			From:  optional(op.From),
			Value: op.Value,
		})
	}
	return &doc
}
