package cfbf

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameChainFromPath(t *testing.T) {
	type args struct {
		s string
	}
	tests := []struct {
		name string
		args args
		want []string
	}{
		{
			name: "empty",
			args: args{s: ""},
			want: []string{"."},
		},
		{
			name: "valid abs",
			args: args{s: "/foo/bar/baz/"},
			want: []string{"foo", "bar", "baz"},
		},
		{
			name: "valid rel",
			args: args{s: "foo/bar/baz"},
			want: []string{"foo", "bar", "baz"},
		},
		{
			name: "valid up",
			args: args{s: "foo/bar/../baz"},
			want: []string{"foo", "baz"},
		},
		{
			name: "invalid up",
			args: args{s: "foo/../../baz"},
			want: []string{},
		},
		{
			name: "root entry prefix stripped",
			args: args{s: "Root Entry/foo/bar"},
			want: []string{"foo", "bar"},
		},
		{
			name: "bare root entry",
			args: args{s: "Root Entry"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameChainFromPath(tt.args.s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NameChainFromPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathFromNameChain(t *testing.T) {
	type args struct {
		names []string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "empty",
			args: args{names: []string{}},
			want: "Root Entry",
		},
		{
			name: "valid",
			args: args{names: []string{"foo", "bar", "baz"}},
			want: "Root Entry/foo/bar/baz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathFromNameChain(tt.args.names); got != tt.want {
				t.Errorf("PathFromNameChain() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathFromNameChainRoundTripsThroughNameChainFromPath(t *testing.T) {
	names := []string{"DirectoryA", "example2.txt"}
	require.Equal(t, names, NameChainFromPath(PathFromNameChain(names)))
}

func TestCompareNames(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		want  Ordering
	}{
		{"equal", "Data", "Data", OrderEqual},
		{"case insensitive equal", "data", "DATA", OrderEqual},
		{"shorter first", "AB", "ABC", OrderLess},
		{"longer second", "ABCD", "ABC", OrderGreater},
		{"same length lexicographic", "AAA", "AAB", OrderLess},
		{"same length lexicographic reverse", "ZZZ", "AAA", OrderGreater},
		// MS-CFB canonical order compares length before content: a longer
		// name that would otherwise sort earlier lexicographically still
		// sorts after a shorter one.
		{"length beats lexicographic", "B", "AA", OrderLess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CompareNames(tt.left, tt.right))
		})
	}
}

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("Normal Name"))
	require.ErrorIs(t, ValidateName(""), ErrInvalidName)
	require.ErrorIs(t, ValidateName("a/b"), ErrInvalidName)
	require.ErrorIs(t, ValidateName("a\\b"), ErrInvalidName)
	require.ErrorIs(t, ValidateName("a:b"), ErrInvalidName)
	require.ErrorIs(t, ValidateName("a!b"), ErrInvalidName)

	long := ""
	for i := 0; i < 32; i++ {
		long += "x"
	}
	require.ErrorIs(t, ValidateName(long), ErrFilenameTooLong)
}

func TestUTF16LERoundTrip(t *testing.T) {
	for _, s := range []string{"Root Entry", "Data1", "", "Storageé"} {
		b, err := EncodeUTF16LE(s)
		require.NoError(t, err)
		got, err := DecodeUTF16LE(b)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}
