package initdata

import (
	"time"

	"github.com/tidwall/gjson"
)

const userField = "user"

// Principal is the user identity carried by a verified payload.
type Principal struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
}

// LaunchContext holds the verified fields that describe how the app was opened.
type LaunchContext struct {
	AuthDate     time.Time `json:"auth_date"`
	QueryID      string    `json:"query_id,omitempty"`
	StartParam   string    `json:"start_param,omitempty"`
	ChatType     string    `json:"chat_type,omitempty"`
	ChatInstance string    `json:"chat_instance,omitempty"`
}

// Result is the outcome of Verify: either authenticated with a Principal or
// rejected with a Reason. Only Verify can produce an authenticated Result.
type Result struct {
	principal *Principal
	launch    LaunchContext
	reason    Reason
	detail    string
}

func rejected(reason Reason, detail string) Result {
	return Result{reason: reason, detail: detail}
}

func rejectedWith(err error) Result {
	if e, ok := err.(*RejectedError); ok {
		return rejected(e.Reason, e.Detail)
	}
	return rejected(MalformedPayload, err.Error())
}

func (r Result) Authenticated() bool {
	return r.principal != nil
}

// Principal returns the verified identity; ok is false for rejected results.
func (r Result) Principal() (Principal, bool) {
	if r.principal == nil {
		return Principal{}, false
	}
	return *r.principal, true
}

func (r Result) Launch() LaunchContext {
	return r.launch
}

// Reason is empty for authenticated results.
func (r Result) Reason() Reason {
	if r.principal != nil {
		return ""
	}
	return r.reason
}

// Err returns nil for authenticated results and a *RejectedError otherwise.
func (r Result) Err() error {
	if r.principal != nil {
		return nil
	}
	if r.reason == "" {
		return &RejectedError{Detail: "payload was not verified"}
	}
	return &RejectedError{Reason: r.reason, Detail: r.detail}
}

// extractPrincipal prefers the host's "user" JSON object and falls back to
// the flat login-widget style fields.
func extractPrincipal(fields Fields) (Principal, error) {
	if raw, ok := fields.Get(userField); ok {
		if !gjson.Valid(raw) {
			return Principal{}, &RejectedError{Reason: MalformedPayload, Detail: "user field is not valid json"}
		}
		user := gjson.Parse(raw)
		if !user.IsObject() {
			return Principal{}, &RejectedError{Reason: MalformedPayload, Detail: "user field is not an object"}
		}
		p := Principal{
			ID:           user.Get("id").String(),
			FirstName:    user.Get("first_name").String(),
			LastName:     user.Get("last_name").String(),
			Username:     user.Get("username").String(),
			LanguageCode: user.Get("language_code").String(),
			PhotoURL:     user.Get("photo_url").String(),
			IsPremium:    user.Get("is_premium").Bool(),
		}
		if p.ID == "" {
			return Principal{}, &RejectedError{Reason: MalformedPayload, Detail: "user object has no id"}
		}
		return p, nil
	}

	get := func(key string) string {
		v, _ := fields.Get(key)
		return v
	}
	p := Principal{
		ID:           get("id"),
		FirstName:    get("first_name"),
		LastName:     get("last_name"),
		Username:     get("username"),
		LanguageCode: get("language_code"),
		PhotoURL:     get("photo_url"),
	}
	if p.ID == "" {
		return Principal{}, &RejectedError{Reason: MalformedPayload, Detail: "no user identifier"}
	}
	return p, nil
}

func extractLaunch(fields Fields, authDate time.Time) LaunchContext {
	get := func(key string) string {
		v, _ := fields.Get(key)
		return v
	}
	return LaunchContext{
		AuthDate:     authDate,
		QueryID:      get("query_id"),
		StartParam:   get("start_param"),
		ChatType:     get("chat_type"),
		ChatInstance: get("chat_instance"),
	}
}
