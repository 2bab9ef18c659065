package bind

// Values is a successful binding: one typed value per declared
// parameter, default- or zero-filled where the input left a parameter
// unset. Bool parameters hold bool, Int int, Float float64, String
// string and ArrayOfString []string.
type Values map[string]any

// String returns the named string value. Missing or differently typed
// entries return the zero value, as with every accessor below; a
// successful bind always populates every declared parameter, so a miss
// means the caller asked for a name the signature never declared.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the named int value.
func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

// Float returns the named float value.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Bool returns the named bool value.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Strings returns the named string-array value.
func (v Values) Strings(name string) []string {
	s, _ := v[name].([]string)
	return s
}
