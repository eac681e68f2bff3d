package doc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = `{
  "protocol": "LEP/v1",
  "changes": [
    {"path": "a.txt", "op": "patch", "patch": {"hunks": [{"remove": "x", "insert": "y"}]}}
  ]
}`

func TestParse_BareJSON(t *testing.T) {
	d, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)
	assert.Equal(t, Protocol, d.Protocol)
	require.Len(t, d.Changes, 1)
	assert.Equal(t, OpPatch, d.Changes[0].Op)
	assert.Equal(t, "a.txt", d.Changes[0].Path)
}

func TestParse_Fenced(t *testing.T) {
	for _, fence := range []string{"```", "```json", "```lep"} {
		raw := fence + "\n" + minimalDoc + "\n```\n"
		d, err := Parse([]byte(raw))
		require.NoError(t, err, "fence %q", fence)
		assert.Len(t, d.Changes, 1)
	}
}

func TestParse_UnclosedFence(t *testing.T) {
	_, err := Parse([]byte("```json\n" + minimalDoc))
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrBadEnvelope, verr.Code)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"protocol": "LEP/v1", "changes": [`))
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrBadEnvelope, verr.Code)
}

func TestParse_SchemaRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "wrong protocol",
			raw:  `{"protocol": "LEP/v2", "changes": [{"path": "a", "op": "delete"}]}`,
		},
		{
			name: "unknown op",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "truncate"}]}`,
		},
		{
			name: "empty changes",
			raw:  `{"protocol": "LEP/v1", "changes": []}`,
		},
		{
			name: "missing changes",
			raw:  `{"protocol": "LEP/v1"}`,
		},
		{
			name: "empty path",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "", "op": "delete"}]}`,
		},
		{
			name: "bad eol",
			raw:  `{"protocol": "LEP/v1", "defaults": {"eol": "cr"}, "changes": [{"path": "a", "op": "delete"}]}`,
		},
		{
			name: "bad sha256",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "delete", "preimage": {"sha256": "nothex"}}]}`,
		},
		{
			name: "negative size",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "delete", "preimage": {"size": -1}}]}`,
		},
		{
			name: "empty hunks list",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "patch", "patch": {"hunks": []}}]}`,
		},
		{
			name: "empty rename target",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "rename", "rename": {"new_path": ""}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			var verr ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestParse_PairingRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code string
	}{
		{
			name: "patch without hunks",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "patch"}]}`,
			code: ErrMissingBody,
		},
		{
			name: "replace without full_text",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "replace"}]}`,
			code: ErrMissingBody,
		},
		{
			name: "rename without new_path",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "rename"}]}`,
			code: ErrMissingBody,
		},
		{
			name: "delete with stray payload",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "delete", "replace": {"full_text": "x"}}]}`,
			code: ErrStrayBody,
		},
		{
			name: "empty hunk",
			raw:  `{"protocol": "LEP/v1", "changes": [{"path": "a", "op": "patch", "patch": {"hunks": [{}]}}]}`,
			code: ErrEmptyHunk,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestCheck_CollectsAllErrors(t *testing.T) {
	raw := `{
	  "protocol": "LEP/v1",
	  "changes": [
	    {"path": "a", "op": "patch"},
	    {"path": "b", "op": "rename"},
	    {"path": "c", "op": "delete", "create": {"full_text": "x"}}
	  ]
	}`
	errs := Check([]byte(raw))
	require.GreaterOrEqual(t, len(errs), 3)

	codes := map[string]bool{}
	for _, e := range errs {
		codes[e.Code] = true
	}
	assert.True(t, codes[ErrMissingBody])
	assert.True(t, codes[ErrStrayBody])
}

func TestCheck_ValidDocument(t *testing.T) {
	assert.Empty(t, Check([]byte(minimalDoc)))
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "no fence passthrough", in: `{"a": 1}`, want: `{"a": 1}`},
		{name: "plain fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "tagged fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "leading blank lines", in: "\n\n```\n{}\n```\n", want: "{}"},
		{name: "unclosed", in: "```\n{}", wantErr: true},
		{name: "fence alone", in: "```", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripFence(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpRoundTrip(t *testing.T) {
	for name, op := range opValues {
		parsed, err := ParseOp(name)
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
		assert.Equal(t, name, op.String())
	}
	_, err := ParseOp("truncate")
	assert.Error(t, err)
}

func TestPreimageMatches(t *testing.T) {
	data := []byte("hello\n")
	sum := SHA256Hex(data)
	size := int64(len(data))
	yes, no := true, false

	tests := []struct {
		name   string
		pre    *Preimage
		exists bool
		want   bool
	}{
		{name: "nil matches anything", pre: nil, exists: true, want: true},
		{name: "sha match", pre: &Preimage{SHA256: sum}, exists: true, want: true},
		{name: "sha mismatch", pre: &Preimage{SHA256: SHA256Hex([]byte("other"))}, exists: true, want: false},
		{name: "sha case-insensitive", pre: &Preimage{SHA256: strings.ToUpper(sum)}, exists: true, want: true},
		{name: "exists true ok", pre: &Preimage{Exists: &yes}, exists: true, want: true},
		{name: "exists true but absent", pre: &Preimage{Exists: &yes}, exists: false, want: false},
		{name: "exists false but present", pre: &Preimage{Exists: &no}, exists: true, want: false},
		{name: "size match", pre: &Preimage{Size: &size}, exists: true, want: true},
		{
			name: "size mismatch",
			pre: func() *Preimage {
				wrong := size + 1
				return &Preimage{Size: &wrong}
			}(),
			exists: true,
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pre.Matches(tt.exists, data))
		})
	}
}
