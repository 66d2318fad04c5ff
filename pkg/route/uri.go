package route

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// NodeURI describes the endpoint an element talks to: its uri attribute,
// or a bean reference as "ref.method()" or "ref:ref". Returns "" when
// neither is present.
func NodeURI(el *etree.Element) string {
	if el == nil {
		return ""
	}
	if uri := el.SelectAttrValue("uri", ""); uri != "" {
		return uri
	}
	ref := el.SelectAttrValue("ref", "")
	if ref == "" {
		return ""
	}
	if method := el.SelectAttrValue("method", ""); method != "" {
		return ref + "." + method + "()"
	}
	return "ref:" + ref
}

// StripQuery returns uri up to the first '?'.
func StripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}

// Scheme returns the text before the first ':' of uri, or "" when there is
// no separator or it is the first character.
func Scheme(uri string) string {
	if i := strings.IndexByte(uri, ':'); i > 0 {
		return uri[:i]
	}
	return ""
}

var (
	colonSlash   = regexp.MustCompile(`:(/[^/])`)
	colonNoSlash = regexp.MustCompile(`:([^/])`)
)

// EscapeEndpointURI rewrites an endpoint uri into the form used in JMX
// object names: the first '?' is escaped and the first ':' gets "//".
func EscapeEndpointURI(uri string) string {
	answer := strings.Replace(uri, "?", `\?`, 1)
	answer = replaceFirst(colonSlash, answer, "://$1")
	answer = replaceFirst(colonNoSlash, answer, "://$1")
	return answer
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, repl, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}

// Routes returns every route element at or below root, in document order.
func Routes(root *etree.Element) []*etree.Element {
	var out []*etree.Element
	collectRoutes(root, &out)
	return out
}

func collectRoutes(el *etree.Element, out *[]*etree.Element) {
	if el == nil {
		return
	}
	if el.Tag == "route" {
		*out = append(*out, el)
		return
	}
	for _, child := range el.ChildElements() {
		collectRoutes(child, out)
	}
}

// FindRoute returns the route with the given id, or nil.
func FindRoute(root *etree.Element, id string) *etree.Element {
	for _, r := range Routes(root) {
		if r.SelectAttrValue("id", "") == id {
			return r
		}
	}
	return nil
}

// FindByCID returns the element at or below root tagged with the given
// correlation id, or nil.
func FindByCID(root *etree.Element, cid string) *etree.Element {
	if root == nil || cid == "" {
		return nil
	}
	if root.SelectAttrValue("_cid", "") == cid {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := FindByCID(child, cid); found != nil {
			return found
		}
	}
	return nil
}
