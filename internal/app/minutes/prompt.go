package minutes

import (
	"fmt"
	"strings"
	"time"
)

// Style selects the minutes prompt
type Style string

const (
	StyleStandard     Style = "standard"
	StyleProfessional Style = "professional"
)

// DateLayout is how today's date appears in prompts (DD-MM-YYYY)
const DateLayout = "02-01-2006"

const standardPrompt = `You are a MoM generator from the following transcript. Take the below conversation
from a meeting and generate the minutes of the meeting and create a detailed table
containing the list of tasks assigned to each person, the status of each task,
and the deadlines. Write dates as well in the output table.
Today is %s. Identify the speaker names from the meeting transcript.

Generate the Minutes of Meeting in %s only.
Format the output with clear sections:
- Meeting Date
- Attendees
- Meeting Agenda
- Discussion Points
- Task Assignments (in table format)
- Next Steps
- Meeting Conclusion

Transcript:
%s
`

const professionalPrompt = `You are a professional Minutes of Meeting generator. Using the conversation transcript below:

1. Identify all participants and their roles
2. Create a concise summary of the main discussion points
3. List all decisions made during the meeting
4. Create a detailed table containing:
   - Tasks assigned
   - Person responsible
   - Current status
   - Deadlines
5. Note any follow-up actions required
6. Include any important dates mentioned

Today's date is %s.
Generate the Minutes of Meeting in %s only.
Format the output in a professional manner with clear sections and bullet points.

Transcript:
%s
`

// ParseStyle maps a config value to a Style, defaulting to standard
func ParseStyle(s string) Style {
	if Style(strings.ToLower(strings.TrimSpace(s))) == StyleProfessional {
		return StyleProfessional
	}
	return StyleStandard
}

// Prompt builds the minutes prompt for transcript in language
func Prompt(style Style, transcript, language string, today time.Time) string {
	tmpl := standardPrompt
	if style == StyleProfessional {
		tmpl = professionalPrompt
	}
	return fmt.Sprintf(tmpl, today.Format(DateLayout), language, transcript)
}

// TranslatePrompt asks for a translation of a diarized transcript with
// speaker ids replaced by the names mentioned in it.
func TranslatePrompt(text, language string) string {
	return fmt.Sprintf(" Translate the following diarized output to %s\n%s\n\n"+
		"This is the output text having multiple speakers from a diarization model. "+
		"Find the person names from the output text given here and replace the speaker ids "+
		"like SPEAKER 0, SPEAKER 1 etc with corresponding person names. "+
		"Generate complete words in %s.", language, text, language)
}

// IsEnglish reports whether language needs no translation
func IsEnglish(language string) bool {
	return strings.EqualFold(strings.TrimSpace(language), "english")
}
