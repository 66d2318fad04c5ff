package route

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// idSuffixes are tried in order when no breadcrumbId header is present.
var idSuffixes = []string{"MessageID", "ID", "Path", "Name"}

// ParseMessage reads a traced or browsed exchange. The exchange may wrap
// its <message>, or be the message itself. Bodies longer than maxBody
// characters are cut; maxBody <= 0 disables the limit. Missing parts yield
// empty values.
func ParseMessage(exchange *etree.Element, maxBody int) domain.Message {
	msg := domain.Message{}
	if exchange == nil {
		return msg
	}
	msg.UID = childText(exchange, "uid")
	msg.Timestamp = childText(exchange, "timestamp")

	message := firstChild(exchange, "message")
	if message == nil {
		message = exchange
	}

	for _, h := range descendants(message, "header") {
		key := h.SelectAttrValue("key", "")
		if key == "" {
			continue
		}
		msg.Headers = append(msg.Headers, domain.Header{
			Key:   key,
			Type:  HumanizeJavaType(h.SelectAttrValue("type", "")),
			Value: TextContent(h),
		})
	}
	msg.ID = messageID(msg.Headers)

	if body := firstChild(message, "body"); body != nil {
		text := TextContent(body)
		if maxBody > 0 {
			if runes := []rune(text); len(runes) > maxBody {
				text = string(runes[:maxBody])
				msg.BodyTruncated = true
			}
		}
		msg.Body = text
		msg.BodyType = HumanizeJavaType(body.SelectAttrValue("type", ""))
	}
	return msg
}

// ParseMessages parses every child element of root as an exchange.
func ParseMessages(root *etree.Element, maxBody int) []domain.Message {
	if root == nil {
		return nil
	}
	var out []domain.Message
	for _, child := range root.ChildElements() {
		out = append(out, ParseMessage(child, maxBody))
	}
	return out
}

// messageID picks breadcrumbId, then the first header whose key ends in one
// of idSuffixes, then the first header with a value.
func messageID(headers []domain.Header) string {
	for _, h := range headers {
		if h.Key == "breadcrumbId" && h.Value != "" {
			return h.Value
		}
	}
	for _, suffix := range idSuffixes {
		for _, h := range headers {
			if h.Value != "" && strings.HasSuffix(h.Key, suffix) {
				return h.Value
			}
		}
	}
	for _, h := range headers {
		if h.Value != "" {
			return h.Value
		}
	}
	return ""
}

// HumanizeJavaType drops the java.lang. package from a type name.
func HumanizeJavaType(t string) string {
	return strings.TrimPrefix(t, "java.lang.")
}

func firstChild(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func childText(el *etree.Element, tag string) string {
	return TextContent(firstChild(el, tag))
}

func descendants(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, descendants(child, tag)...)
	}
	return out
}
