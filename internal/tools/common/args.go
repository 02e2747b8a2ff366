package common

// ProjectArg is the argument that scopes most tools to a project.
const ProjectArg = "projectId"

// ProjectFromArgs returns the project named by args, or "" when absent or
// not a string.
func ProjectFromArgs(args map[string]any) string {
	if project, ok := args[ProjectArg].(string); ok {
		return project
	}
	return ""
}

// WithDefaultProject returns args with projectId set to project when the
// schema declares a projectId field and the caller left it out. args is
// never modified; a copy is returned when a value is filled in.
func WithDefaultProject(schema Schema, args map[string]any, project string) map[string]any {
	if project == "" || args == nil {
		return args
	}
	if _, declared := schema.Field(ProjectArg); !declared {
		return args
	}
	if v, ok := args[ProjectArg]; ok && v != nil && v != "" {
		return args
	}

	filled := make(map[string]any, len(args)+1)
	for k, v := range args {
		filled[k] = v
	}
	filled[ProjectArg] = project
	return filled
}

// ProjectIDField is the projectId argument shared by project-scoped tools.
func ProjectIDField() Field {
	return Field{
		Name:        ProjectArg,
		Type:        TypeString,
		Required:    true,
		Description: "The ID or name of the project",
	}
}
