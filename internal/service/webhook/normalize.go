package webhook

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"issuehub/internal/domain"
)

// Payload is the flat key/value body the version control server posts.
type Payload map[string]any

const (
	keyRepository       = "PLASTIC_REPOSITORY_NAME"
	keyBranch           = "PLASTIC_BRANCH_NAME"
	keyUser             = "PLASTIC_USER"
	keyComment          = "PLASTIC_COMMENT"
	keyChangeset        = "PLASTIC_CHANGESET"
	keyMergeType        = "PLASTIC_MERGE_TYPE"
	keyMergeSource      = "PLASTIC_MERGE_SOURCE"
	keyMergeDestination = "PLASTIC_MERGE_DESTINATION"
	keyHasConflicts     = "PLASTIC_HAS_CONFLICTS"
)

var changesetPattern = regexp.MustCompile(`cs:(\d+)`)

// ExtractChangesetNumber returns the digits immediately following the first
// "cs:" marker, or nil when there is none.
func ExtractChangesetNumber(s string) *string {
	m := changesetPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	return &m[1]
}

// Normalize maps the vendor payload onto an audit record. A merge marker
// makes it a merge; anything else is a checkin.
func Normalize(p Payload) domain.VCSEvent {
	event := domain.VCSEvent{
		EventType:  domain.VCSEventCheckin,
		RepoName:   p.str(keyRepository),
		BranchName: p.str(keyBranch),
		Author:     p.str(keyUser),
		Comment:    p.str(keyComment),
	}
	event.ChangesetNumber = ExtractChangesetNumber(p.str(keyChangeset))

	if p.has(keyMergeType) || p.has(keyMergeSource) {
		event.EventType = domain.VCSEventMerge
		event.MergeSource = p.optional(keyMergeSource)
		event.MergeDestination = p.optional(keyMergeDestination)
		event.HasConflicts = p.boolean(keyHasConflicts)
	}
	return event
}

func parsePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON object: %v", domain.ErrValidation, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", domain.ErrValidation)
	}
	return p, nil
}

func (p Payload) has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func (p Payload) str(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (p Payload) optional(key string) *string {
	if !p.has(key) {
		return nil
	}
	s := p.str(key)
	return &s
}

func (p Payload) boolean(key string) *bool {
	switch v := p[key].(type) {
	case bool:
		return &v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &b
	}
	return nil
}
