package session

import "strings"

// All component custom ids live under this prefix so that other bots'
// components in the same guild are never mistaken for ours.
const actionNamespace = "assist-"

type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionCategory
	ActionCloseThread
	ActionAddTags
	ActionTagsSelect
	ActionTagsSelectDismiss
)

const (
	customIDCloseThread       = actionNamespace + "close-thread"
	customIDAddTags           = actionNamespace + "add-tags"
	customIDTagsSelect        = actionNamespace + "tags-select"
	customIDTagsSelectDismiss = actionNamespace + "tags-select-dismiss"
)

type Action struct {
	Kind     ActionKind
	Category Category
}

// ParseAction maps a component custom id to the action it triggers. Ids are
// matched exactly; anything unrecognised is ActionUnknown.
func ParseAction(customID string) Action {
	name, ok := strings.CutPrefix(customID, actionNamespace)
	if !ok {
		return Action{Kind: ActionUnknown}
	}
	switch customID {
	case customIDCloseThread:
		return Action{Kind: ActionCloseThread}
	case customIDAddTags:
		return Action{Kind: ActionAddTags}
	case customIDTagsSelect:
		return Action{Kind: ActionTagsSelect}
	case customIDTagsSelectDismiss:
		return Action{Kind: ActionTagsSelectDismiss}
	}
	if c := Category(name); c.Valid() {
		return Action{Kind: ActionCategory, Category: c}
	}
	return Action{Kind: ActionUnknown}
}

func (c Category) CustomID() string {
	return actionNamespace + string(c)
}

func (k ActionKind) String() string {
	switch k {
	case ActionCategory:
		return "category"
	case ActionCloseThread:
		return "close-thread"
	case ActionAddTags:
		return "add-tags"
	case ActionTagsSelect:
		return "tags-select"
	case ActionTagsSelectDismiss:
		return "tags-select-dismiss"
	default:
		return "unknown"
	}
}
