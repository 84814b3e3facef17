package domain

// ContextKey names a value stored in a request context.
type ContextKey string

const (
	RequesterIdCtxKey        ContextKey = "tg-requesterId"
	RequesterPrincipalCtxKey ContextKey = "tg-requesterPrincipal"
	RequesterLaunchCtxKey    ContextKey = "tg-requesterLaunch"
	AuthRejectionCtxKey      ContextKey = "tg-authRejection"
)

const (
	AuthorizationScheme = "tma"
	InitDataQueryParam  = "initData"
)

type FunnelStatus string

const (
	FunnelStatusDraft     FunnelStatus = "draft"
	FunnelStatusPublished FunnelStatus = "published"
	FunnelStatusArchived  FunnelStatus = "archived"
)

const (
	DefaultFunnelName = "New Funnel"
	DefaultPageName   = "New Page"
	DefaultPageType   = "landing"

	MaxNameLength = 255
)
