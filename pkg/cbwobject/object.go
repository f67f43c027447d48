package cbwobject

// Field is one name/value pair of an Object.
type Field struct {
	Name  string
	Value Value
}

// Object is a Generic Object: a record shaped by whatever the payload held.
// Fields keep their source order. An Object exclusively owns its nested values.
type Object struct {
	fields []Field
	index  map[string]int
}

// NewObject builds an object from fields. A repeated name keeps its first
// position and takes the last value, matching how the mapper treats duplicate
// keys.
func NewObject(fields ...Field) *Object {
	o := &Object{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		o.set(f.Name, f.Value)
	}
	return o
}

func (o *Object) set(name string, v Value) {
	if i, ok := o.index[name]; ok {
		o.fields[i].Value = v
		return
	}
	o.index[name] = len(o.fields)
	o.fields = append(o.fields, Field{Name: name, Value: v})
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// Get returns the named field and whether it was present.
func (o *Object) Get(name string) (Value, bool) {
	if o == nil {
		return Null(), false
	}
	i, ok := o.index[name]
	if !ok {
		return Null(), false
	}
	return o.fields[i].Value, true
}

// Field returns the named field or null.
func (o *Object) Field(name string) Value {
	v, _ := o.Get(name)
	return v
}

// Has reports whether the field is present, even when its value is null.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Keys returns the field names in source order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.Name
	}
	return keys
}

// Fields returns a copy of the fields in source order.
func (o *Object) Fields() []Field {
	if o == nil {
		return nil
	}
	cp := make([]Field, len(o.fields))
	copy(cp, o.fields)
	return cp
}

// ID renders the "id" field as text: the string itself or the number
// literal. It returns "" when the record has no usable id.
func (o *Object) ID() string {
	v := o.Field("id")
	switch v.Kind() {
	case KindString:
		return v.s
	case KindNumber:
		return v.s
	default:
		return ""
	}
}

// Value wraps the object as a Value.
func (o *Object) Value() Value { return NewObjectValue(o) }

// Equal compares names, order and values.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.fields) != len(other.fields) {
		return false
	}
	for i := range o.fields {
		if o.fields[i].Name != other.fields[i].Name {
			return false
		}
		if !o.fields[i].Value.Equal(other.fields[i].Value) {
			return false
		}
	}
	return true
}
