package voices

import (
	"TeluguTTS/internal/service/tts"
	"strings"
)

// AutoKey ключ опции «голос выбирает провайдер по языку».
const AutoKey = "auto"

// Separator подпись неактивного разделителя групп.
const Separator = "──────────"

// Option одна строка выпадающего списка голосов.
type Option struct {
	Label    string `json:"label"`
	Key      string `json:"key"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Partition делит голоса на приоритетные (язык начинается с prefix) и остальные, сохраняя порядок.
func Partition(list []tts.Voice, prefix string) (preferred, others []tts.Voice) {
	prefix = strings.ToLower(prefix)
	for _, v := range list {
		if strings.HasPrefix(strings.ToLower(v.Lang), prefix) {
			preferred = append(preferred, v)
		} else {
			others = append(others, v)
		}
	}
	return preferred, others
}

// Build строит список: auto, приоритетные, разделитель (если обе группы непусты), остальные.
func Build(list []tts.Voice, prefix, autoLabel string) []Option {
	preferred, others := Partition(list, prefix)
	out := make([]Option, 0, len(list)+2)
	out = append(out, Option{Label: autoLabel, Key: AutoKey})
	for _, v := range preferred {
		out = append(out, option(v))
	}
	if len(preferred) > 0 && len(others) > 0 {
		out = append(out, Option{Label: Separator, Disabled: true})
	}
	for _, v := range others {
		out = append(out, option(v))
	}
	return out
}

// Find ищет голос по ключу выбора.
func Find(list []tts.Voice, key string) (tts.Voice, bool) {
	for _, v := range list {
		if v.ID == key {
			return v, true
		}
	}
	return tts.Voice{}, false
}

func option(v tts.Voice) Option {
	return Option{Label: v.Name + " (" + v.Lang + ")", Key: v.ID}
}
