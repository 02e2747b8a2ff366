package workitem_tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

type getWorkItemArgs struct {
	WorkItemID int `json:"workItemId"`
}

func getWorkItem(ctx context.Context, conn common.Connection, args getWorkItemArgs) (any, error) {
	api, err := conn.WorkItemAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetWorkItem(ctx, args.WorkItemID, summaryFields)
}

type listWorkItemsArgs struct {
	ProjectID string `json:"projectId"`
	TeamID    string `json:"teamId"`
	QueryID   string `json:"queryId"`
	WIQL      string `json:"wiql"`
	Top       *int   `json:"top"`
	Skip      *int   `json:"skip"`
}

func listWorkItems(ctx context.Context, conn common.Connection, args listWorkItemsArgs) (any, error) {
	api, err := conn.WorkItemAPI(ctx)
	if err != nil {
		return nil, err
	}

	team := azuredevops.TeamContext{Project: args.ProjectID, Team: args.TeamID}

	var result *azuredevops.WorkItemQueryResult
	if args.QueryID != "" {
		result, err = api.QueryByID(ctx, team, args.QueryID)
	} else {
		query := args.WIQL
		if query == "" {
			query = defaultWIQL(args.ProjectID, args.TeamID)
		}
		result, err = api.QueryByWIQL(ctx, team, query)
	}
	if err != nil {
		return nil, err
	}

	ids := page(referenceIDs(result), args.Skip, args.Top)
	if len(ids) == 0 {
		return []azuredevops.WorkItem{}, nil
	}
	return api.GetWorkItems(ctx, ids, summaryFields)
}

// defaultWIQL selects every work item of the project, optionally of one team.
func defaultWIQL(project, team string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = '%s'", quoteWIQL(project))
	if team != "" {
		fmt.Fprintf(&b, " AND [System.TeamId] = '%s'", quoteWIQL(team))
	}
	b.WriteString(" ORDER BY [System.Id]")
	return b.String()
}

// quoteWIQL escapes a value for a single-quoted WIQL literal.
func quoteWIQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func referenceIDs(result *azuredevops.WorkItemQueryResult) []int {
	if result == nil {
		return nil
	}
	ids := make([]int, 0, len(result.WorkItems))
	for _, ref := range result.WorkItems {
		if ref.ID != 0 {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

// page applies skip, then top.
func page(ids []int, skip, top *int) []int {
	if skip != nil {
		if *skip >= len(ids) {
			return nil
		}
		ids = ids[*skip:]
	}
	if top != nil && *top < len(ids) {
		ids = ids[:*top]
	}
	return ids
}

// fieldArgs are the optional field values accepted by create and update.
type fieldArgs struct {
	Description      *string        `json:"description"`
	AssignedTo       *string        `json:"assignedTo"`
	AreaPath         *string        `json:"areaPath"`
	IterationPath    *string        `json:"iterationPath"`
	Priority         *int           `json:"priority"`
	AdditionalFields map[string]any `json:"additionalFields"`
}

// patch builds "add" operations for every field that was supplied.
// Additional fields are applied in key order.
func (f fieldArgs) patch(title, state *string) []azuredevops.JSONPatchOperation {
	var ops []azuredevops.JSONPatchOperation
	add := func(field string, value any) {
		ops = append(ops, azuredevops.JSONPatchOperation{Op: "add", Path: "/fields/" + field, Value: value})
	}

	if title != nil {
		add("System.Title", *title)
	}
	if f.Description != nil {
		add("System.Description", *f.Description)
	}
	if f.AssignedTo != nil {
		add("System.AssignedTo", *f.AssignedTo)
	}
	if f.AreaPath != nil {
		add("System.AreaPath", *f.AreaPath)
	}
	if f.IterationPath != nil {
		add("System.IterationPath", *f.IterationPath)
	}
	if f.Priority != nil {
		add("Microsoft.VSTS.Common.Priority", *f.Priority)
	}
	if state != nil {
		add("System.State", *state)
	}

	keys := make([]string, 0, len(f.AdditionalFields))
	for k := range f.AdditionalFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, f.AdditionalFields[k])
	}
	return ops
}

type createWorkItemArgs struct {
	fieldArgs
	ProjectID    string `json:"projectId"`
	WorkItemType string `json:"workItemType"`
	Title        string `json:"title"`
}

func createWorkItem(ctx context.Context, conn common.Connection, args createWorkItemArgs) (any, error) {
	if strings.TrimSpace(args.Title) == "" {
		return nil, azuredevops.NewValidationError("Title is required", nil)
	}

	api, err := conn.WorkItemAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.CreateWorkItem(ctx, args.ProjectID, args.WorkItemType, args.patch(&args.Title, nil))
}

type updateWorkItemArgs struct {
	fieldArgs
	WorkItemID int     `json:"workItemId"`
	Title      *string `json:"title"`
	State      *string `json:"state"`
}

func updateWorkItem(ctx context.Context, conn common.Connection, args updateWorkItemArgs) (any, error) {
	ops := args.patch(args.Title, args.State)
	if len(ops) == 0 {
		return nil, azuredevops.NewValidationError("At least one field must be provided for update", nil)
	}

	api, err := conn.WorkItemAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.UpdateWorkItem(ctx, args.WorkItemID, ops)
}
