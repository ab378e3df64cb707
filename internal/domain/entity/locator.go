package entity

import "fmt"

type LocatorKind int

const (
	LocatorClassName LocatorKind = iota + 1
	LocatorCSSSelector
	LocatorID
	LocatorLinkText
	LocatorName
	LocatorPartialLinkText
	LocatorTagName
	LocatorXPath
)

var locatorKindNames = map[LocatorKind]string{
	LocatorClassName:       "ClassName",
	LocatorCSSSelector:     "CssSelector",
	LocatorID:              "Id",
	LocatorLinkText:        "LinkText",
	LocatorName:            "Name",
	LocatorPartialLinkText: "PartialLinkText",
	LocatorTagName:         "TagName",
	LocatorXPath:           "XPath",
}

func (k LocatorKind) String() string {
	if name, ok := locatorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LocatorKind(%d)", int(k))
}

func (k LocatorKind) Valid() bool {
	_, ok := locatorKindNames[k]
	return ok
}

// ParseLocatorKind accepts both the display name and short CLI aliases.
func ParseLocatorKind(s string) (LocatorKind, error) {
	switch s {
	case "ClassName", "class":
		return LocatorClassName, nil
	case "CssSelector", "css":
		return LocatorCSSSelector, nil
	case "Id", "id":
		return LocatorID, nil
	case "LinkText", "link":
		return LocatorLinkText, nil
	case "Name", "name":
		return LocatorName, nil
	case "PartialLinkText", "partial-link":
		return LocatorPartialLinkText, nil
	case "TagName", "tag":
		return LocatorTagName, nil
	case "XPath", "xpath":
		return LocatorXPath, nil
	}
	return 0, fmt.Errorf("unknown locator kind %q", s)
}

// Locator is an immutable (kind, value) pair. The zero value is not a valid
// locator; use the By* constructors.
type Locator struct {
	kind  LocatorKind
	value string
}

func ByClassName(v string) Locator       { return Locator{kind: LocatorClassName, value: v} }
func ByCSSSelector(v string) Locator     { return Locator{kind: LocatorCSSSelector, value: v} }
func ByID(v string) Locator              { return Locator{kind: LocatorID, value: v} }
func ByLinkText(v string) Locator        { return Locator{kind: LocatorLinkText, value: v} }
func ByName(v string) Locator            { return Locator{kind: LocatorName, value: v} }
func ByPartialLinkText(v string) Locator { return Locator{kind: LocatorPartialLinkText, value: v} }
func ByTagName(v string) Locator         { return Locator{kind: LocatorTagName, value: v} }
func ByXPath(v string) Locator           { return Locator{kind: LocatorXPath, value: v} }

// NewLocator builds a locator from a parsed kind.
func NewLocator(kind LocatorKind, value string) (Locator, error) {
	if !kind.Valid() {
		return Locator{}, fmt.Errorf("invalid locator kind %d", int(kind))
	}
	return Locator{kind: kind, value: value}, nil
}

func (l Locator) Kind() LocatorKind { return l.kind }
func (l Locator) Value() string     { return l.value }
func (l Locator) IsZero() bool      { return l.kind == 0 }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.kind, l.value)
}
