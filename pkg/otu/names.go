package otu

import "regexp"

// OrfM decorates each translated ORF name as <read>_<start>_<frame>_<orf>.
// The frame-only form <read>_<digits> shows up in placement documents.
var (
	orfm_name_regex    = regexp.MustCompile(`^(\S+)_\d+_\d+_\d+$`)
	frame_suffix_regex = regexp.MustCompile(`_\d+$`)
)

// UnOrfmName strips the OrfM start/frame/ORF decoration from a read name.
// Names without the decoration are returned unchanged.
func UnOrfmName(name string) string {
	if m := orfm_name_regex.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// StripFrameSuffix removes one trailing _<digits> decoration, if present.
func StripFrameSuffix(name string) string {
	return frame_suffix_regex.ReplaceAllString(name, "")
}

// CanonicalReadName maps any decorated read name back to the raw read name
// used as the join key between the alignment, taxonomy and placement
// datasets. The OrfM decoration is removed first, then a bare frame suffix.
func CanonicalReadName(name string) string {
	return StripFrameSuffix(UnOrfmName(name))
}
