package youtube

import (
	"testing"

	"github.com/stretchr/testify/require"
	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"v in later param", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short with fragment", "https://youtu.be/dQw4w9WgXcQ#t=10", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractVideoIDInvalid(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"not youtube", "https://example.com/watch?v=dQw4w9WgXcQxx"},
		{"id too short", "https://youtu.be/short"},
		{"id too long", "https://youtu.be/waytoolongvideoid"},
		{"empty", ""},
		{"no id", "https://www.youtube.com/watch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractVideoID(tc.url)
			require.ErrorIs(t, err, appErr.ErrInvalidURL)
		})
	}
}
