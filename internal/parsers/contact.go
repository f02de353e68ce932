package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devfolarin/payslip-extractor/internal/entity"
)

// Contact extraction is a specificity cascade: role-qualified phone numbers
// first, then labeled phones, then bare digit runs not already attributed,
// then categorized emails, then a website. Later tiers never overwrite or
// duplicate a value captured by an earlier, more specific tier.

var (
	// "SAO(LW) 011-25665588" style role tags used on PCDA contact blocks.
	rolePhone = regexp.MustCompile(`(?i)\b(SAO\s*\(\s*LW\s*\)|AAO\s*\(\s*LW\s*\)|SAO\s*\(\s*TW\s*\)|AAO\s*\(\s*TW\s*\)|PRO\s+CIVIL|PRO\s+ARMY)\s*[:\-]?\s*((?:\d[\d\- ]{6,14}\d))`)

	labeledPhone = regexp.MustCompile(`(?i)(?:phone|tel|telephone|helpline|contact)\s*(?:no\.?)?\s*[:\-]?\s*((?:\d[\d\- ]{6,14}\d))`)

	barePhone = regexp.MustCompile(`\b\d{3,5}[- ]?\d{5,8}\b`)

	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	labeledWebsite = regexp.MustCompile(`(?i)website\s*[:\-]?\s*((?:https?://)?[a-z0-9.\-]+\.[a-z]{2,}\S*)`)
	bareWebsite    = regexp.MustCompile(`(?i)\b(?:www\.)?[a-z0-9\-]+\.(?:gov|nic|org|com)(?:\.in)?\b`)
)

// ParseContact extracts role-qualified and general contact details from a
// contact section.
func ParseContact(section entity.DocumentSection) map[string]string {
	out := make(map[string]string)
	text := section.Text

	// tier 1: role-qualified phone numbers
	for _, m := range rolePhone.FindAllStringSubmatch(text, -1) {
		key := "phone_" + roleKey(m[1])
		if _, seen := out[key]; !seen {
			out[key] = strings.TrimSpace(m[2])
		}
	}

	// tier 2: labeled phone numbers
	labeledIdx := 0
	for _, m := range labeledPhone.FindAllStringSubmatch(text, -1) {
		number := strings.TrimSpace(m[1])
		if hasValue(out, number) {
			continue
		}
		labeledIdx++
		out[phoneKey(labeledIdx)] = number
	}

	// tier 3: bare digit runs not already attributed
	for _, number := range barePhone.FindAllString(text, -1) {
		if hasValue(out, number) {
			continue
		}
		labeledIdx++
		out[phoneKey(labeledIdx)] = number
	}

	// tier 4: emails, categorized by purpose keywords, else numbered
	emailIdx := 0
	for _, email := range emailPattern.FindAllString(text, -1) {
		if hasValue(out, email) {
			continue
		}
		key := emailSlot(email)
		if key == "" {
			emailIdx++
			key = fmt.Sprintf("email_%d", emailIdx)
		}
		if _, seen := out[key]; !seen {
			out[key] = email
		}
	}

	// tier 5: website, labeled form preferred over a bare domain token
	if m := labeledWebsite.FindStringSubmatch(text); len(m) > 1 {
		out["website"] = strings.TrimSpace(m[1])
	} else if m := bareWebsite.FindString(text); m != "" && !hasValue(out, m) {
		out["website"] = m
	}

	return out
}

func roleKey(raw string) string {
	key := strings.ToLower(raw)
	key = strings.NewReplacer("(", "", ")", "", " ", "", "-", "").Replace(key)
	return key
}

func phoneKey(n int) string {
	if n == 1 {
		return "phone"
	}
	return fmt.Sprintf("phone_%d", n)
}

func emailSlot(email string) string {
	lower := strings.ToLower(email)
	switch {
	case strings.Contains(lower, "ledger"):
		return "email_ledger"
	case strings.Contains(lower, "tada"):
		return "email_tada"
	case strings.Contains(lower, "rankpay"):
		return "email_rankpay"
	case strings.Contains(lower, "general"):
		return "email_general"
	}
	return ""
}

func hasValue(m map[string]string, value string) bool {
	needle := digitsOnly(value)
	for _, v := range m {
		if v == value {
			return true
		}
		if needle != "" && digitsOnly(v) == needle {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
