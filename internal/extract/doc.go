// Package extract turns relayed HTML pages into media records.
//
// Every field is read through an ordered list of probes (a CSS selector plus
// the attribute to read) and the first non-empty value wins. Fields that no
// probe resolves take a fixed default, so a partially recognised page still
// yields a record. A page is reported as empty only when its primary
// container (the selector enumerating repeated items, or the title on a
// detail page) matches nothing.
//
// All functions here are pure: the same markup always produces the same
// record, and malformed markup is treated as markup that matches nothing.
package extract
