package session

type Category string

const (
	CategoryHelp     Category = "help"
	CategoryQuestion Category = "question"
	CategoryBug      Category = "bug"
	CategoryFeature  Category = "feature"
)

// Categories lists every kind in the order the buttons are shown.
var Categories = []Category{CategoryHelp, CategoryQuestion, CategoryBug, CategoryFeature}

type categoryAttributes struct {
	emoji       string
	label       string
	color       int
	noun        string
	buttonLabel string
}

var categoryTable = map[Category]categoryAttributes{
	CategoryHelp:     {emoji: "🤝", label: "Help", color: rgb(255, 213, 97), noun: "problem", buttonLabel: "I need help"},
	CategoryQuestion: {emoji: "🙋", label: "Question", color: rgb(253, 103, 63), noun: "question", buttonLabel: "I have a question"},
	CategoryBug:      {emoji: "🐞", label: "Bug", color: rgb(220, 40, 63), noun: "problem", buttonLabel: "I've found a bug or problem"},
	CategoryFeature:  {emoji: "💡", label: "Feature", color: rgb(254, 194, 83), noun: "feature suggestion", buttonLabel: "I have a feature suggestion"},
}

func rgb(r, g, b int) int {
	return r<<16 | g<<8 | b
}

func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

func (c Category) Emoji() string       { return categoryTable[c].emoji }
func (c Category) Label() string       { return categoryTable[c].label }
func (c Category) Color() int          { return categoryTable[c].color }
func (c Category) ButtonLabel() string { return categoryTable[c].buttonLabel }

// Noun is how the prompt refers to what the user is reporting.
func (c Category) Noun() string { return categoryTable[c].noun }
