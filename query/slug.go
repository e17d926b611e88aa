package query

import (
	"strings"
	"unicode"

	"github.com/erraggy/oasexplorer/indexer"
)

// slugEscape precedes a lower-cased letter that was upper case in the path.
const slugEscape = '~'

// EndpointPathToSlug turns a URL template into a lower-case slug.
//
// The leading slash is dropped, "{param}" segments become ":param" and upper
// case letters become '~' followed by the lower-case letter, so
// "/users/{userId}" yields "users/:user~id". Characters other than letters,
// digits, '-', '_' and '.' become '-'; paths made only of the former round-trip
// exactly through SlugToEndpointPath.
func EndpointPathToSlug(path string) string {
	path = strings.TrimPrefix(path, "/")
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isParam(seg) {
			segments[i] = ":" + encodeSlugSegment(seg[1:len(seg)-1])
			continue
		}
		segments[i] = encodeSlugSegment(seg)
	}
	return strings.Join(segments, "/")
}

// SlugToEndpointPath is the inverse of EndpointPathToSlug.
func SlugToEndpointPath(slug string) string {
	slug = strings.TrimPrefix(slug, "/")
	segments := strings.Split(slug, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + decodeSlugSegment(seg[1:]) + "}"
			continue
		}
		segments[i] = decodeSlugSegment(seg)
	}
	return "/" + strings.Join(segments, "/")
}

func isParam(seg string) bool {
	return len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}' &&
		!strings.ContainsAny(seg[1:len(seg)-1], "{}")
}

func encodeSlugSegment(seg string) string {
	var b strings.Builder
	b.Grow(len(seg))
	for _, r := range seg {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(slugEscape)
			b.WriteRune(unicode.ToLower(r))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func decodeSlugSegment(seg string) string {
	var b strings.Builder
	b.Grow(len(seg))
	escaped := false
	for _, r := range seg {
		switch {
		case escaped:
			b.WriteRune(unicode.ToUpper(r))
			escaped = false
		case r == slugEscape:
			escaped = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NodeSlug returns the URL slug of a tag node FullPath: each segment is lower
// cased, runs of other characters become '-', and segments are joined with '/'.
// "Pet Store | Pets" yields "pet-store/pets".
func NodeSlug(fullPath string) string {
	segments := indexer.ParseTag(fullPath)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, slugifySegment(seg))
	}
	return strings.Join(out, "/")
}

func slugifySegment(seg string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(seg) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
