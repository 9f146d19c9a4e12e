package wafir

// JSONSchema returns a JSON Schema document describing .github/wafir.yaml. It
// exists to document the config format for widget authors; the bridge does not
// run config documents through it.
func JSONSchema() map[string]interface{} {
	stringList := func(def ...string) map[string]interface{} {
		list := map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		}
		if len(def) > 0 {
			list["default"] = def
		}
		return list
	}
	boolean := map[string]interface{}{"type": "boolean", "default": false}
	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "Wafir config",
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"storage": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{
						"type":    "string",
						"enum":    storageTypes,
						"default": StorageTypeIssue,
					},
					"owner":     map[string]interface{}{"type": "string"},
					"repo":      map[string]interface{}{"type": "string"},
					"projectId": map[string]interface{}{"type": "number"},
				},
			},
			"feedback": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":    "string",
						"default": "Feedback",
					},
					"labels": stringList("feedback"),
				},
			},
			"issue": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"screenshot":  boolean,
					"browserInfo": boolean,
					"consoleLog":  boolean,
					"labels":      stringList("bug"),
				},
			},
			"fields": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"name", "label", "type"},
					"properties": map[string]interface{}{
						"name":  map[string]interface{}{"type": "string"},
						"label": map[string]interface{}{"type": "string"},
						"type": map[string]interface{}{
							"type": "string",
							"enum": fieldTypes,
						},
						"required": boolean,
						"options":  stringList(),
					},
				},
			},
		},
	}
}
