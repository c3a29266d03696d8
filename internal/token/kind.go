package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota

	// Separator is inter-cell whitespace: two or more spaces, or a tab run.
	Separator
	// EOL is a line ending, "\n" or "\r\n", exactly as read.
	EOL
	// Continuation is the "..." marker that joins a statement across lines.
	Continuation

	// SectionHeader is a "*** Name ***" header cell.
	SectionHeader
	// TestName is a test or task definition name at column zero.
	TestName
	// KeywordName is a user keyword definition name at column zero.
	KeywordName
	// SettingName is a setting cell: "[Tags]", "Library", "Test Setup".
	SettingName
	// KeywordCall is the keyword-name cell of a call statement.
	KeywordCall
	// Argument is any plain argument cell.
	Argument
	// Assign is a return-value target cell, "${x}" or "${x} =".
	Assign
	// Variable is the name cell of a Variables-section entry.
	Variable
	// Var is the "VAR" declaration marker.
	Var
	// Comment is a "#"-prefixed cell running to the end of the line.
	Comment
	// Data is any content cell the parser could not classify further.
	Data
)

var kindNames = map[Kind]string{
	Invalid:       "Invalid",
	Separator:     "Separator",
	EOL:           "EOL",
	Continuation:  "Continuation",
	SectionHeader: "SectionHeader",
	TestName:      "TestName",
	KeywordName:   "KeywordName",
	SettingName:   "SettingName",
	KeywordCall:   "KeywordCall",
	Argument:      "Argument",
	Assign:        "Assign",
	Variable:      "Variable",
	Var:           "Var",
	Comment:       "Comment",
	Data:          "Data",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
