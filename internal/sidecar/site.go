package sidecar

// Site is the closed set of source-site conventions recognized in JSON
// descriptors. Each site implies a tag payload format; unknown categories
// fall back to SiteOther.
type Site int

const (
	SiteOther Site = iota
	SiteMobiusArt
	SiteSankaku
	SiteDanbooru
	SiteRule34
	SiteSafebooru
)

type tagFormat int

const (
	// tags as a JSON array of strings, lowercased with underscores
	tagFormatArray tagFormat = iota
	// tags as one space-delimited string, case preserved
	tagFormatSpaceDelimited
	// tags as one comma-delimited string, tokens trimmed
	tagFormatCommaDelimited
)

func siteFromCategory(category string) Site {
	switch category {
	case "art.mobius.social":
		return SiteMobiusArt
	case "sankaku":
		return SiteSankaku
	case "danbooru":
		return SiteDanbooru
	case "rule34":
		return SiteRule34
	case "safebooru":
		return SiteSafebooru
	default:
		return SiteOther
	}
}

func (s Site) tagFormat() tagFormat {
	switch s {
	case SiteMobiusArt, SiteSankaku, SiteDanbooru:
		return tagFormatArray
	case SiteRule34, SiteSafebooru:
		return tagFormatSpaceDelimited
	default:
		return tagFormatCommaDelimited
	}
}

func (s Site) String() string {
	switch s {
	case SiteMobiusArt:
		return "art.mobius.social"
	case SiteSankaku:
		return "sankaku"
	case SiteDanbooru:
		return "danbooru"
	case SiteRule34:
		return "rule34"
	case SiteSafebooru:
		return "safebooru"
	default:
		return "other"
	}
}
