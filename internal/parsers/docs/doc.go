// Package docs parses documentation index topics and pages.
//
// An index topic carries a "Navigation" section with a Level/Path/Navlink
// table and an optional "Redirects" section with a Path/Location table.
// Parsing the index yields the navigation tree, the URL map between site
// paths and topic IDs, and the redirect map; page topics are then parsed
// with those maps so internal forum links rewrite to site paths.
package docs
