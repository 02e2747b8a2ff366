package azuredevops

// Only the fields the tools surface are modelled. Every field is omitempty
// so results serialize without zero-value noise.

// ResourceArea is one entry of the location service.
type ResourceArea struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	LocationURL string `json:"locationUrl,omitempty"`
}

// TeamProjectReference is the summary returned when listing projects.
type TeamProjectReference struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Description    string `json:"description,omitempty"`
	URL            string `json:"url,omitempty"`
	State          string `json:"state,omitempty"`
	Revision       int64  `json:"revision,omitempty"`
	Visibility     string `json:"visibility,omitempty"`
	LastUpdateTime string `json:"lastUpdateTime,omitempty"`
}

// TeamProject is a project with its capabilities and default team.
type TeamProject struct {
	TeamProjectReference
	Capabilities map[string]map[string]string `json:"capabilities,omitempty"`
	DefaultTeam  *WebAPITeamRef               `json:"defaultTeam,omitempty"`
	Links        map[string]any               `json:"_links,omitempty"`
}

// WebAPITeamRef identifies a team.
type WebAPITeamRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// IdentityRef identifies a user or group.
type IdentityRef struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	UniqueName  string `json:"uniqueName,omitempty"`
	URL         string `json:"url,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// WorkItem is a work item with the requested fields.
type WorkItem struct {
	ID        int                `json:"id,omitempty"`
	Rev       int                `json:"rev,omitempty"`
	Fields    map[string]any     `json:"fields,omitempty"`
	Relations []WorkItemRelation `json:"relations,omitempty"`
	URL       string             `json:"url,omitempty"`
	Links     map[string]any     `json:"_links,omitempty"`
}

// WorkItemRelation links a work item to another resource.
type WorkItemRelation struct {
	Rel        string         `json:"rel,omitempty"`
	URL        string         `json:"url,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// WorkItemReference is what a query returns for each matching item.
type WorkItemReference struct {
	ID  int    `json:"id"`
	URL string `json:"url,omitempty"`
}

// WorkItemQueryResult is the outcome of a WIQL or saved query.
type WorkItemQueryResult struct {
	QueryType         string              `json:"queryType,omitempty"`
	AsOf              string              `json:"asOf,omitempty"`
	WorkItems         []WorkItemReference `json:"workItems,omitempty"`
	WorkItemRelations []WorkItemLink      `json:"workItemRelations,omitempty"`
}

// WorkItemLink is one edge of a tree or one-hop query result.
type WorkItemLink struct {
	Rel    string             `json:"rel,omitempty"`
	Source *WorkItemReference `json:"source,omitempty"`
	Target *WorkItemReference `json:"target,omitempty"`
}

// TeamContext scopes a query to a project and optionally a team.
type TeamContext struct {
	Project string
	Team    string
}

// JSONPatchOperation is one RFC 6902 operation.
type JSONPatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// GitRepository is a Git repository.
type GitRepository struct {
	ID            string                `json:"id,omitempty"`
	Name          string                `json:"name,omitempty"`
	URL           string                `json:"url,omitempty"`
	Project       *TeamProjectReference `json:"project,omitempty"`
	DefaultBranch string                `json:"defaultBranch,omitempty"`
	Size          int64                 `json:"size,omitempty"`
	RemoteURL     string                `json:"remoteUrl,omitempty"`
	SSHURL        string                `json:"sshUrl,omitempty"`
	WebURL        string                `json:"webUrl,omitempty"`
	IsDisabled    bool                  `json:"isDisabled,omitempty"`
	Links         map[string]any        `json:"_links,omitempty"`
}

// GitPullRequest is a pull request.
type GitPullRequest struct {
	PullRequestID int                   `json:"pullRequestId,omitempty"`
	CodeReviewID  int                   `json:"codeReviewId,omitempty"`
	Status        string                `json:"status,omitempty"`
	CreatedBy     *IdentityRef          `json:"createdBy,omitempty"`
	CreationDate  string                `json:"creationDate,omitempty"`
	ClosedDate    string                `json:"closedDate,omitempty"`
	Title         string                `json:"title,omitempty"`
	Description   string                `json:"description,omitempty"`
	SourceRefName string                `json:"sourceRefName,omitempty"`
	TargetRefName string                `json:"targetRefName,omitempty"`
	MergeStatus   string                `json:"mergeStatus,omitempty"`
	IsDraft       bool                  `json:"isDraft,omitempty"`
	Reviewers     []IdentityRefWithVote `json:"reviewers,omitempty"`
	Repository    *GitRepository        `json:"repository,omitempty"`
	URL           string                `json:"url,omitempty"`
	Links         map[string]any        `json:"_links,omitempty"`
}

// IdentityRefWithVote is a reviewer and their vote.
type IdentityRefWithVote struct {
	IdentityRef
	Vote       int  `json:"vote,omitempty"`
	IsRequired bool `json:"isRequired,omitempty"`
}

// PullRequestSearchCriteria filters ListPullRequests.
type PullRequestSearchCriteria struct {
	Status        string
	CreatorID     string
	ReviewerID    string
	SourceRefName string
	TargetRefName string
	IncludeLinks  bool
}

// Comment is one comment in a thread.
type Comment struct {
	ID              int          `json:"id,omitempty"`
	ParentCommentID int          `json:"parentCommentId,omitempty"`
	Author          *IdentityRef `json:"author,omitempty"`
	Content         string       `json:"content,omitempty"`
	PublishedDate   string       `json:"publishedDate,omitempty"`
	LastUpdatedDate string       `json:"lastUpdatedDate,omitempty"`
	CommentType     string       `json:"commentType,omitempty"`
	IsDeleted       bool         `json:"isDeleted,omitempty"`
}

// CommentPosition is a line/offset pair inside a file.
type CommentPosition struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// CommentThreadContext anchors a thread to a file range.
type CommentThreadContext struct {
	FilePath       string           `json:"filePath,omitempty"`
	LeftFileStart  *CommentPosition `json:"leftFileStart,omitempty"`
	LeftFileEnd    *CommentPosition `json:"leftFileEnd,omitempty"`
	RightFileStart *CommentPosition `json:"rightFileStart,omitempty"`
	RightFileEnd   *CommentPosition `json:"rightFileEnd,omitempty"`
}

// CommentThread is a pull request comment thread.
type CommentThread struct {
	ID                       int                   `json:"id,omitempty"`
	Status                   string                `json:"status,omitempty"`
	Comments                 []Comment             `json:"comments,omitempty"`
	ThreadContext            *CommentThreadContext `json:"threadContext,omitempty"`
	PullRequestThreadContext map[string]any        `json:"pullRequestThreadContext,omitempty"`
	PublishedDate            string                `json:"publishedDate,omitempty"`
	LastUpdatedDate          string                `json:"lastUpdatedDate,omitempty"`
	IsDeleted                bool                  `json:"isDeleted,omitempty"`
	Properties               map[string]any        `json:"properties,omitempty"`
}

// PullRequestIteration is one push to a pull request.
type PullRequestIteration struct {
	ID          int          `json:"id,omitempty"`
	Description string       `json:"description,omitempty"`
	Author      *IdentityRef `json:"author,omitempty"`
	CreatedDate string       `json:"createdDate,omitempty"`
	UpdatedDate string       `json:"updatedDate,omitempty"`
}

// IterationChanges lists the files changed by an iteration.
type IterationChanges struct {
	ChangeEntries []PullRequestChange `json:"changeEntries"`
	NextSkip      int                 `json:"nextSkip,omitempty"`
	NextTop       int                 `json:"nextTop,omitempty"`
}

// PullRequestChange is one changed item.
type PullRequestChange struct {
	ChangeTrackingID int            `json:"changeTrackingId,omitempty"`
	ChangeID         int            `json:"changeId,omitempty"`
	ChangeType       string         `json:"changeType,omitempty"`
	Item             map[string]any `json:"item,omitempty"`
	OriginalPath     string         `json:"originalPath,omitempty"`
}

// Build is a pipeline run.
type Build struct {
	ID            int                  `json:"id,omitempty"`
	BuildNumber   string               `json:"buildNumber,omitempty"`
	Status        string               `json:"status,omitempty"`
	Result        string               `json:"result,omitempty"`
	QueueTime     string               `json:"queueTime,omitempty"`
	StartTime     string               `json:"startTime,omitempty"`
	FinishTime    string               `json:"finishTime,omitempty"`
	SourceBranch  string               `json:"sourceBranch,omitempty"`
	SourceVersion string               `json:"sourceVersion,omitempty"`
	Definition    *DefinitionReference `json:"definition,omitempty"`
	RequestedFor  *IdentityRef         `json:"requestedFor,omitempty"`
	URL           string               `json:"url,omitempty"`
}

// DefinitionReference identifies a build or release definition.
type DefinitionReference struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// TestRun is a test run.
type TestRun struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	State         string `json:"state,omitempty"`
	TotalTests    int    `json:"totalTests,omitempty"`
	PassedTests   int    `json:"passedTests,omitempty"`
	StartedDate   string `json:"startedDate,omitempty"`
	CompletedDate string `json:"completedDate,omitempty"`
	URL           string `json:"url,omitempty"`
}

// Release is a classic release.
type Release struct {
	ID                int                  `json:"id,omitempty"`
	Name              string               `json:"name,omitempty"`
	Status            string               `json:"status,omitempty"`
	CreatedOn         string               `json:"createdOn,omitempty"`
	CreatedBy         *IdentityRef         `json:"createdBy,omitempty"`
	ReleaseDefinition *DefinitionReference `json:"releaseDefinition,omitempty"`
	Description       string               `json:"description,omitempty"`
}

// TaskAgentPool is an agent pool.
type TaskAgentPool struct {
	ID        int          `json:"id,omitempty"`
	Name      string       `json:"name,omitempty"`
	IsHosted  bool         `json:"isHosted,omitempty"`
	PoolType  string       `json:"poolType,omitempty"`
	Size      int          `json:"size,omitempty"`
	CreatedBy *IdentityRef `json:"createdBy,omitempty"`
}

// Timeline is the record tree of an orchestration plan.
type Timeline struct {
	ID            string           `json:"id,omitempty"`
	ChangeID      int              `json:"changeId,omitempty"`
	LastChangedBy string           `json:"lastChangedBy,omitempty"`
	LastChangedOn string           `json:"lastChangedOn,omitempty"`
	Records       []TimelineRecord `json:"records,omitempty"`
	URL           string           `json:"url,omitempty"`
}

// TimelineRecord is one stage, job or task of a timeline.
type TimelineRecord struct {
	ID         string `json:"id,omitempty"`
	ParentID   string `json:"parentId,omitempty"`
	Type       string `json:"type,omitempty"`
	Name       string `json:"name,omitempty"`
	State      string `json:"state,omitempty"`
	Result     string `json:"result,omitempty"`
	StartTime  string `json:"startTime,omitempty"`
	FinishTime string `json:"finishTime,omitempty"`
	ErrorCount int    `json:"errorCount,omitempty"`
}

// Organization is an organization the authenticated user belongs to.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
