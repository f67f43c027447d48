package cbwobject_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const serverJSON = `{"id":2,"hostname":"cyberwatch-esxi.localdomain","description":null,
"last_communication":"2020-07-28T15:02:08.000+02:00","reboot_required":null,"updates_count":0,
"boot_at":null,"category":"hypervisor","created_at":"2020-07-28T15:02:05.000+02:00",
"cve_announcements_count":0,"prioritized_cve_announcements_count":0,"status":"server_update_comm_fail",
"os":{"key":"vmware_esxi_7_0","name":"VMware ESXi 7.0","arch":"x86_64","eol":"2025-04-02T02:00:00.000+02:00",
"short_name":"ESXi 7.0","type":"Os::Vmware"},"environment":{"id":2,"name":"Medium",
"confidentiality_requirement":"confidentiality_requirement_medium","integrity_requirement":"integrity_requirement_medium",
"availability_requirement":"availability_requirement_medium"},"groups":[],"compliance_groups":[]}`

const serverCanonical = "cbw_object(id=2, hostname='cyberwatch-esxi.localdomain', description=None, " +
	"last_communication='2020-07-28T15:02:08.000+02:00', reboot_required=None, updates_count=0, boot_at=None, category='hypervisor', " +
	"created_at='2020-07-28T15:02:05.000+02:00', cve_announcements_count=0, prioritized_cve_announcements_count=0, " +
	"status='server_update_comm_fail', os=cbw_object(key='vmware_esxi_7_0', name='VMware ESXi 7.0', arch='x86_64', " +
	"eol='2025-04-02T02:00:00.000+02:00', short_name='ESXi 7.0', type='Os::Vmware'), environment=cbw_object(id=2, name='Medium', " +
	"confidentiality_requirement='confidentiality_requirement_medium', integrity_requirement='integrity_requirement_medium', " +
	"availability_requirement='availability_requirement_medium'), groups=[], compliance_groups=[])"

func TestParseServerRecordRendersCanonicalForm(t *testing.T) {
	v, err := cbwobject.Parse([]byte("[" + serverJSON + "]"))
	require.NoError(t, err)
	require.Equal(t, cbwobject.KindList, v.Kind())
	require.Equal(t, 1, v.Len())

	server := v.Index(0)
	assert.Equal(t, serverCanonical, server.String())

	hostname, ok := server.Field("hostname").Str()
	require.True(t, ok)
	assert.Equal(t, "cyberwatch-esxi.localdomain", hostname)

	osKey, ok := server.Field("os").Field("key").Str()
	require.True(t, ok)
	assert.Equal(t, "vmware_esxi_7_0", osKey)

	obj, ok := server.Object()
	require.True(t, ok)
	assert.Equal(t, "2", obj.ID())
	assert.True(t, obj.Has("description"))
	assert.True(t, obj.Field("description").IsNull())
	assert.False(t, obj.Has("missing"))
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind cbwobject.Kind
		wantLen  int
		want     string
	}{
		{name: "empty array", input: `[]`, wantKind: cbwobject.KindList, wantLen: 0, want: "[]"},
		{name: "null", input: `null`, wantKind: cbwobject.KindNull, want: "None"},
		{name: "empty body", input: ``, wantKind: cbwobject.KindNull, want: "None"},
		{name: "blank body", input: " \n\t", wantKind: cbwobject.KindNull, want: "None"},
		{name: "string", input: `"ok"`, wantKind: cbwobject.KindString, want: "'ok'"},
		{name: "bool", input: `true`, wantKind: cbwobject.KindBool, want: "True"},
		{name: "integer", input: `42`, wantKind: cbwobject.KindNumber, want: "42"},
		{name: "float", input: `7.0`, wantKind: cbwobject.KindNumber, want: "7.0"},
		{name: "float trailing zero", input: `1.50`, wantKind: cbwobject.KindNumber, want: "1.5"},
		{name: "exponent literal", input: `1e5`, wantKind: cbwobject.KindNumber, want: "100000.0"},
		{name: "nested", input: `{"a":{"b":1}}`, wantKind: cbwobject.KindObject, wantLen: 1, want: "cbw_object(a=cbw_object(b=1))"},
		{name: "mixed list", input: `[1,"x",null,false,[]]`, wantKind: cbwobject.KindList, wantLen: 5, want: "[1, 'x', None, False, []]"},
		{name: "extra fields kept in order", input: `{"z":1,"a":2,"m":3}`, wantKind: cbwobject.KindObject, wantLen: 3, want: "cbw_object(z=1, a=2, m=3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := cbwobject.Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, v.Kind())
			assert.Equal(t, tt.wantLen, v.Len())
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseNestedObject(t *testing.T) {
	v, err := cbwobject.Parse([]byte(`{"a": {"b": 1}}`))
	require.NoError(t, err)

	a, ok := v.Field("a").Object()
	require.True(t, ok)
	b, ok := a.Field("b").Int()
	require.True(t, ok)
	assert.Equal(t, int64(1), b)
}

func TestParseScalarFieldsUnchanged(t *testing.T) {
	v, err := cbwobject.Parse([]byte(`{"s":"text","i":-3,"f":2.5,"t":true,"n":null}`))
	require.NoError(t, err)

	obj, ok := v.Object()
	require.True(t, ok)
	assert.Equal(t, []string{"s", "i", "f", "t", "n"}, obj.Keys())

	s, _ := obj.Field("s").Str()
	i, _ := obj.Field("i").Int()
	f, _ := obj.Field("f").Float()
	b, _ := obj.Field("t").Bool()
	assert.Equal(t, "text", s)
	assert.Equal(t, int64(-3), i)
	assert.Equal(t, 2.5, f)
	assert.True(t, b)
	assert.True(t, obj.Field("n").IsNull())
}

func TestParseIsPure(t *testing.T) {
	input := []byte(serverJSON)
	original := string(input)

	first, err := cbwobject.Parse(input)
	require.NoError(t, err)
	second, err := cbwobject.Parse(input)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("mapping is not deterministic (-first +second):\n%s", diff)
	}
	assert.Equal(t, original, string(input))
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	for _, input := range []string{`{"a":}`, `[1,`, `{"a":1} {"b":2}`, `nope`} {
		_, err := cbwobject.Parse([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestDuplicateKeysKeepFirstPositionLastValue(t *testing.T) {
	v, err := cbwobject.Parse([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, "cbw_object(a=3, b=2)", v.String())
}

func TestEqualIsOrderSensitive(t *testing.T) {
	a, err := cbwobject.Parse([]byte(`{"x":1,"y":2}`))
	require.NoError(t, err)
	b, err := cbwobject.Parse([]byte(`{"y":2,"x":1}`))
	require.NoError(t, err)
	c, err := cbwobject.Parse([]byte(`{"x":1,"y":2}`))
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(c))
	assert.False(t, cbwobject.NewInt(1).Equal(cbwobject.NewString("1")))
}

func TestStringQuoting(t *testing.T) {
	tests := map[string]string{
		"plain":          `'plain'`,
		"it's":           `"it's"`,
		`say "hi"`:       `'say "hi"'`,
		`both ' and "`:   `'both \' and "'`,
		"line\nbreak":    `'line\nbreak'`,
		`back\slash`:     `'back\\slash'`,
		"tab\there":      `'tab\there'`,
		"bell\x07":       `'bell\x07'`,
		"café":           `'café'`,
		"":               `''`,
		"nbsp\u00a0here":  `'nbsp\xa0here'`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cbwobject.NewString(in).String(), "input %q", in)
	}
}

func TestNavigationOnMissingStepsYieldsNull(t *testing.T) {
	v, err := cbwobject.Parse([]byte(`{"list":[{"cve_code":"CVE-2019-14869"}]}`))
	require.NoError(t, err)

	code, ok := v.Field("list").Index(0).Field("cve_code").Str()
	require.True(t, ok)
	assert.Equal(t, "CVE-2019-14869", code)

	assert.True(t, v.Field("nope").Field("deeper").IsNull())
	assert.True(t, v.Field("list").Index(5).IsNull())
	assert.True(t, cbwobject.NewString("x").Field("y").IsNull())
}

func TestIntConversion(t *testing.T) {
	i, ok := cbwobject.NewNumber(json.Number("7.0")).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = cbwobject.NewNumber(json.Number("7.5")).Int()
	assert.False(t, ok)

	_, ok = cbwobject.NewString("7").Int()
	assert.False(t, ok)
}

func TestMarshalJSONPreservesOrder(t *testing.T) {
	input := `{"z":1,"a":[true,null,"s"],"m":{"k":2.50}}`
	v, err := cbwobject.Parse([]byte(input))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestValueEmbedsInStructs(t *testing.T) {
	var wrapper struct {
		Record cbwobject.Value `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"record":{"id":5,"name":"n"}}`), &wrapper))
	assert.Equal(t, "cbw_object(id=5, name='n')", wrapper.Record.String())
}

func TestMarshalYAMLPreservesOrderAndTypes(t *testing.T) {
	v, err := cbwobject.Parse([]byte(`{"name":"true","id":3,"score":7.5,"ok":false,"tags":["a"],"none":null}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)

	want := "name: \"true\"\nid: 3\nscore: 7.5\nok: false\ntags:\n    - a\nnone: null\n"
	assert.Equal(t, want, string(out))
}

func TestFromAnySortsMapKeys(t *testing.T) {
	v, err := cbwobject.FromAny(map[string]any{
		"groups": []any{13, 12},
		"name":   "web",
		"active": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "cbw_object(active=True, groups=[13, 12], name='web')", v.String())
}

func TestNewObjectBuildsRecords(t *testing.T) {
	obj := cbwobject.NewObject(
		cbwobject.Field{Name: "id", Value: cbwobject.NewString("CVE-2017-0146")},
		cbwobject.Field{Name: "score", Value: cbwobject.NewNumber("8.1")},
	)
	assert.Equal(t, "CVE-2017-0146", obj.ID())
	assert.Equal(t, "cbw_object(id='CVE-2017-0146', score=8.1)", obj.String())

	var nilObj *cbwobject.Object
	assert.Equal(t, 0, nilObj.Len())
	assert.Equal(t, "None", nilObj.String())
	assert.True(t, nilObj.Equal(nil))
	assert.False(t, obj.Equal(nil))
}

func TestNumberRendering(t *testing.T) {
	cases := map[string]string{
		"0":       "0",
		"-0":      "0",
		"-12":     "-12",
		"0.0":     "0.0",
		"-0.0":    "-0.0",
		"9.3":     "9.3",
		"1E2":     "100.0",
		"0.0001":  "0.0001",
		"0.00001": "1e-05",
		"1.5e-7":  "1.5e-07",
		"1e16":    "1e+16",
		"2.5e15":  "2500000000000000.0",
		"1e400":   "inf",
	}
	for lit, want := range cases {
		v := cbwobject.NewNumber(json.Number(lit))
		assert.Equal(t, want, v.String(), "literal %s", lit)
	}
	big := cbwobject.NewNumber("12345678901234567890")
	assert.Equal(t, "12345678901234567890", big.String(), "integers are never rounded")

	raw, err := json.Marshal(cbwobject.NewNumber("1.50"))
	require.NoError(t, err)
	assert.Equal(t, "1.50", string(raw), "JSON output keeps the source literal")
}
