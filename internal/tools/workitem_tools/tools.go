package workitem_tools

import (
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// summaryFields are returned by get_work_item and list_work_items.
var summaryFields = []string{
	"System.Id",
	"System.Title",
	"System.State",
	"System.AssignedTo",
}

// Tools returns the work item tool descriptors.
func Tools() []common.Descriptor {
	return []common.Descriptor{
		{
			Name:        "get_work_item",
			Description: "Get details of a specific work item",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				workItemIDField(),
			}},
			Handler: common.Handle(getWorkItem),
		},
		{
			Name:        "list_work_items",
			Description: "List work items in a project, optionally filtered by a saved query or a WIQL query",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				common.ProjectIDField(),
				{Name: "teamId", Type: common.TypeString, Description: "The ID of the team"},
				{Name: "queryId", Type: common.TypeString, Description: "ID of a saved work item query"},
				{Name: "wiql", Type: common.TypeString, Description: "Work Item Query Language (WIQL) query"},
				{Name: "top", Type: common.TypeInteger, Description: "Maximum number of work items to return", Minimum: common.Min(0)},
				{Name: "skip", Type: common.TypeInteger, Description: "Number of work items to skip", Minimum: common.Min(0)},
			}},
			Handler: common.Handle(listWorkItems),
		},
		{
			Name:        "create_work_item",
			Description: "Create a new work item",
			Schema: common.Schema{Fields: append([]common.Field{
				common.ProjectIDField(),
				{Name: "workItemType", Type: common.TypeString, Required: true, Description: "The type of work item (e.g., Bug, Task, User Story)"},
				{Name: "title", Type: common.TypeString, Required: true, Description: "The title of the work item"},
			}, editableFields(false)...)},
			Handler: common.Handle(createWorkItem),
		},
		{
			Name:        "update_work_item",
			Description: "Update an existing work item",
			Schema: common.Schema{Fields: append([]common.Field{
				workItemIDField(),
				{Name: "title", Type: common.TypeString, Description: "The updated title of the work item"},
			}, editableFields(true)...)},
			Handler: common.Handle(updateWorkItem),
		},
	}
}

func workItemIDField() common.Field {
	return common.Field{
		Name:        "workItemId",
		Type:        common.TypeInteger,
		Required:    true,
		Description: "The ID of the work item",
		Minimum:     common.Min(1),
	}
}

// editableFields are the optional fields shared by create and update.
func editableFields(withState bool) []common.Field {
	fields := []common.Field{
		{Name: "description", Type: common.TypeString, Description: "The description of the work item"},
		{Name: "assignedTo", Type: common.TypeString, Description: "The email or name of the user to assign the work item to"},
		{Name: "areaPath", Type: common.TypeString, Description: "The area path for the work item"},
		{Name: "iterationPath", Type: common.TypeString, Description: "The iteration path for the work item"},
		{Name: "priority", Type: common.TypeInteger, Description: "The priority of the work item"},
	}
	if withState {
		fields = append(fields, common.Field{Name: "state", Type: common.TypeString, Description: "The state of the work item"})
	}
	return append(fields, common.Field{
		Name:        "additionalFields",
		Type:        common.TypeObject,
		Description: "Additional fields to set, keyed by reference name (e.g. Custom.Field)",
	})
}
