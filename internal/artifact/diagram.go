package artifact

import (
	"regexp"
	"strings"
)

// Diagram is the lexical form of a PlantUML sequence diagram: the elements
// the LUCIM subset cares about, each with its 1-based source line number.
type Diagram struct {
	HasStart  bool
	StartLine int
	HasEnd    bool
	EndLine   int

	Title     string
	TitleLine int

	Participants []Participant
	Messages     []DiagramMessage
	Activations  []Activation
	Fragments    []Fragment
	Notes        []int // line numbers of note constructs
}

// Participant is a declared diagram participant or actor.
type Participant struct {
	Keyword string // "participant" or "actor"
	Name    string // display name
	Alias   string // alias if declared with "as", otherwise equal to Name
	Line    int
}

// DiagramMessage is one message arrow between two endpoints.
type DiagramMessage struct {
	From  string
	To    string
	Arrow string
	Label string
	Line  int
}

// Activation is an activate/deactivate directive.
type Activation struct {
	Op     string // "activate" or "deactivate"
	Target string
	Line   int
}

// Fragment is a combined-fragment keyword (alt, loop, par, ...) outside the
// LUCIM subset.
type Fragment struct {
	Keyword string
	Line    int
}

// HasParticipant reports whether a participant with the given name or alias
// is declared.
func (d *Diagram) HasParticipant(name string) bool {
	return d.participantLine(name) > 0
}

// participantLine returns the declaration line for a participant name or
// alias, or 0 if undeclared.
func (d *Diagram) participantLine(name string) int {
	for _, p := range d.Participants {
		if p.Name == name || p.Alias == name {
			return p.Line
		}
	}
	return 0
}

var (
	participantRe = regexp.MustCompile(`^(participant|actor)\s+(?:"([^"]+)"|(\S+))(?:\s+as\s+(\S+))?\s*$`)
	messageRe     = regexp.MustCompile(`^(?:"([^"]+)"|([^\s"<>-]+))\s*(-{1,2}>{1,2})\s*(?:"([^"]+)"|([^\s":]+))\s*(?::\s*(.*))?$`)
	activationRe  = regexp.MustCompile(`^(activate|deactivate)\s+(\S+)\s*$`)
	fragmentRe    = regexp.MustCompile(`^(alt|else|opt|loop|par|break|critical|group|end)\b`)
	noteRe        = regexp.MustCompile(`^(note\b|end\s+note\b|[hr]note\b)`)
)

// lexDiagram performs a line-oriented lexical pass over diagram markup.
// Unrecognized lines are ignored; the rule catalog works off the recognized
// elements and the raw lines kept on the Artifact.
func lexDiagram(text string) *Diagram {
	d := &Diagram{}

	for i, rawLine := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(rawLine)

		switch {
		case line == "" || strings.HasPrefix(line, "'"):
			continue

		case strings.HasPrefix(line, "@startuml"):
			if !d.HasStart {
				d.HasStart = true
				d.StartLine = lineNo
			}

		case strings.HasPrefix(line, "@enduml"):
			d.HasEnd = true
			d.EndLine = lineNo

		case strings.HasPrefix(line, "title"):
			d.Title = strings.TrimSpace(strings.TrimPrefix(line, "title"))
			d.TitleLine = lineNo

		case noteRe.MatchString(line):
			d.Notes = append(d.Notes, lineNo)

		case participantRe.MatchString(line):
			m := participantRe.FindStringSubmatch(line)
			name := m[2]
			if name == "" {
				name = m[3]
			}
			alias := m[4]
			if alias == "" {
				alias = name
			}
			d.Participants = append(d.Participants, Participant{
				Keyword: m[1],
				Name:    name,
				Alias:   alias,
				Line:    lineNo,
			})

		case activationRe.MatchString(line):
			m := activationRe.FindStringSubmatch(line)
			d.Activations = append(d.Activations, Activation{Op: m[1], Target: m[2], Line: lineNo})

		case fragmentRe.MatchString(line):
			m := fragmentRe.FindStringSubmatch(line)
			d.Fragments = append(d.Fragments, Fragment{Keyword: m[1], Line: lineNo})

		case messageRe.MatchString(line):
			m := messageRe.FindStringSubmatch(line)
			from := m[1]
			if from == "" {
				from = m[2]
			}
			to := m[4]
			if to == "" {
				to = m[5]
			}
			d.Messages = append(d.Messages, DiagramMessage{
				From:  from,
				To:    to,
				Arrow: m[3],
				Label: strings.TrimSpace(m[6]),
				Line:  lineNo,
			})
		}
	}

	return d
}
