package models

// DefaultSiteName is shown in page titles and the site header.
const DefaultSiteName = "PostDesk"
