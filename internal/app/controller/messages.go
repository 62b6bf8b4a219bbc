package controller

import (
	"TeluguTTS/internal/service/tts"
	"fmt"
)

// Messages тексты статусов, которые видит пользователь.
type Messages struct {
	Auto                string
	Ready               string
	Unsupported         string
	NoVoices            string
	EmptyText           string
	Started             string
	Finished            string
	NotAllowed          string
	LanguageUnavailable string
	VoiceUnavailable    string
	SynthesisFailed     string
	Generic             string // формат с одним %s для кода ошибки
}

// TeluguMessages тексты интерфейса на телугу.
func TeluguMessages() Messages {
	return Messages{
		Auto:                "ఆటోమేటిక్ (భాష ఆధారిత)",
		Ready:               "అప్లికేషన్ సిద్ధంగా ఉంది.",
		Unsupported:         "క్షమించండి, స్పీచ్ సింథసిస్ అందుబాటులో లేదు.",
		NoVoices:            "వాయిస్‌లు లోడ్ కాలేదు లేదా అందుబాటులో లేవు.",
		EmptyText:           "దయచేసి మాట్లాడటానికి కొంత వచనాన్ని నమోదు చేయండి.",
		Started:             "మాట్లాడటం ప్రారంభించబడింది...",
		Finished:            "మాట్లాడటం పూర్తయింది.",
		NotAllowed:          "స్పీచ్ సింథసిస్ అనుమతించబడలేదు. దయచేసి సేవ అనుమతులను తనిఖీ చేయండి.",
		LanguageUnavailable: "ఎంచుకున్న భాష అందుబాటులో లేదు.",
		VoiceUnavailable:    "ఎంచుకున్న వాయిస్ అందుబాటులో లేదు.",
		SynthesisFailed:     "సింథసిస్ విఫలమైంది. దయచేసి మళ్లీ ప్రయత్నించండి లేదా వేరే వాయిస్‌ని ఎంచుకోండి.",
		Generic:             "ఒక లోపం సంభవించింది: %s",
	}
}

// ForError текст статуса для кода ошибки провайдера.
func (m Messages) ForError(code string) string {
	switch code {
	case tts.CodeNotAllowed, tts.CodeServiceNotAllowed:
		return m.NotAllowed
	case tts.CodeLanguageUnavailable:
		return m.LanguageUnavailable
	case tts.CodeVoiceUnavailable:
		return m.VoiceUnavailable
	case tts.CodeSynthesisFailed:
		return m.SynthesisFailed
	default:
		return fmt.Sprintf(m.Generic, code)
	}
}
