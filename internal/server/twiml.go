package server

import (
	"fmt"
	"net/http"

	"github.com/twilio/twilio-go/twiml"
)

// Spoken lines.
const (
	promptText   = "Good morning. What are your tasks for today? Speak them as a list, pausing between items."
	fallbackText = "I didn't catch that. We'll try again later. Goodbye."
	noTasksText  = "I couldn't capture any tasks. Goodbye."
)

// Speech gather settings.
const (
	gatherInput         = "speech"
	gatherLanguage      = "en-US"
	gatherSpeechTimeout = "auto"
)

// promptDocument gathers speech and posts the transcript to action. The
// trailing Say is only reached when the gather ends without a callback.
func promptDocument(action string) (string, error) {
	gather := &twiml.VoiceGather{
		Input:         gatherInput,
		Language:      gatherLanguage,
		SpeechTimeout: gatherSpeechTimeout,
		Action:        action,
		Method:        http.MethodPost,
		InnerElements: []twiml.Element{
			&twiml.VoiceSay{Message: promptText},
		},
	}
	return twiml.Voice([]twiml.Element{
		gather,
		&twiml.VoiceSay{Message: fallbackText},
	})
}

// sayDocument speaks a single line.
func sayDocument(text string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: text},
	})
}

// confirmation is the closing line after a capture.
func confirmation(made int) string {
	switch made {
	case 0:
		return noTasksText
	case 1:
		return "I captured 1 task. Goodbye."
	default:
		return fmt.Sprintf("I captured %d tasks. Goodbye.", made)
	}
}
