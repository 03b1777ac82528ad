// Package pattern loads grok pattern definitions from files and provides the
// bundled pattern catalogs.
//
// Two formats are supported. The classic definition format has one pattern
// per line, the name followed by whitespace and the regular expression:
//
//	# comments and blank lines are ignored
//	USERNAME [a-zA-Z0-9._-]+
//	USER %{USERNAME}
//
// The YAML format carries the same data with an explicit version:
//
//	version: 1
//	set: myapp
//	patterns:
//	  - name: MYAPP_ID
//	    regex: 'id-[0-9a-f]{8}'
//	  - name: MYAPP_LINE
//	    regex: '%{TIMESTAMP_ISO8601:timestamp} %{MYAPP_ID:myapp.id}'
package pattern

// PatternFile is a named set of pattern definitions.
type PatternFile struct {
	// Version is the file format version. Currently only version 1 is supported.
	Version int `yaml:"version"`

	// Set names the collection the patterns belong to. It is informational
	// and shows up in Definition.Set once registered.
	Set string `yaml:"set"`

	// Patterns is the list of pattern definitions.
	Patterns []Pattern `yaml:"patterns"`
}

// Pattern is a single named definition. Regex may reference other patterns
// with %{NAME}, %{NAME:field} or %{NAME:field:type}.
type Pattern struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

// Map returns the definitions as name -> regex.
func (pf *PatternFile) Map() map[string]string {
	m := make(map[string]string, len(pf.Patterns))
	for _, p := range pf.Patterns {
		m[p.Name] = p.Regex
	}
	return m
}
