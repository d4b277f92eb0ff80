package server

import (
	"github.com/tidwall/gjson"
)

// Client settings live under this section of the configuration payload.
const settingsSection = "ejsd"

const defaultMaxProblems = 100

// settingsFromPayload reads the settings section out of a raw
// workspace/didChangeConfiguration notification. The payload is schemaless,
// so values are queried by path. A missing enabled flag keeps the server on;
// a falsy problem cap falls back to fallbackMax.
func settingsFromPayload(contents []byte, fallbackMax int) Settings {
	enabled := true
	if v := gjson.GetBytes(contents, "params.settings."+settingsSection+".enabled"); v.Exists() {
		enabled = v.Bool()
	}

	maxProblems := int(gjson.GetBytes(contents, "params.settings."+settingsSection+".maxProblems").Int())
	if maxProblems == 0 {
		maxProblems = fallbackMax
	}

	return Settings{
		Enabled:     enabled,
		MaxProblems: maxProblems,
	}
}
