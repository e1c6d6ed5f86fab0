package feed

import "encoding/xml"

// rss — корневой элемент RSS 2.0.
type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

// channel — канал со списком постов.
type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Language      string `xml:"language,omitempty"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []item `xml:"item"`
}

// item — один пост в ленте.
type item struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	// GUID совпадает со ссылкой на пост, isPermaLink="true".
	GUID    guid   `xml:"guid"`
	PubDate string `xml:"pubDate,omitempty"`
	// Description — подзаголовок поста.
	Description string `xml:"description,omitempty"`
	// Creator — автор; поле author в RSS 2.0 требует e-mail, поэтому dc:creator.
	Creator string `xml:"http://purl.org/dc/elements/1.1/ creator,omitempty"`
}

// guid — <guid> с атрибутом isPermaLink.
type guid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}
