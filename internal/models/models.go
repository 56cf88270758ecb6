package models

// JSONValue is a generic type to represent any decoded JSON value.
// This can be a string, json.Number, boolean, nil, JSONObject, or JSONArray.
type JSONValue interface{}

// Member is a single key/value entry of a JSON object.
type Member struct {
	Key   string
	Value JSONValue
}

// JSONObject represents a JSON object as a slice of members in document
// order. Keeping the source order is what makes column order stable:
// ranging over a Go map would shuffle keys on every run.
type JSONObject []Member

// Get returns the value of the first member with the given key.
func (o JSONObject) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Document holds one parsed input for the flattener to work with.
type Document struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
	FromLines   bool // True if the root was assembled from JSON-Lines input
}
