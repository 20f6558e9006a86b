// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import "strings"

func renderArticle(e *entry) string {
	var b strings.Builder
	b.WriteString(e.byline(""))
	b.WriteString(" // " + e.get("journal") + "." + dash + " ")
	b.WriteString(e.imprint())
	if e.has("volume") {
		b.WriteString(dash + " " + e.vocab.Volume + " " + e.get("volume") + ".")
	}
	if e.has("number") {
		b.WriteString(dash + ` \No ` + e.get("number") + ".")
	}
	b.WriteString(e.pageRange())
	if e.has("url") {
		b.WriteString(e.url())
	}
	return b.String()
}

func renderBook(e *entry) string {
	return e.byline("") + "." + dash + " " + e.imprint() + e.totalPages()
}

func renderConference(e *entry) string {
	var b strings.Builder
	b.WriteString(e.byline(""))
	b.WriteString(" // " + e.get("booktitle"))
	if e.has("series") {
		b.WriteString(". " + e.get("series"))
	}
	b.WriteString("." + dash + " ")
	b.WriteString(e.imprint())
	b.WriteString(e.pageRange())
	return b.String()
}

// renderManual uses the first author group as written, without
// decomposition.
func renderManual(e *entry) string {
	line := e.get("title") + " / " + e.groups[0]
	if !strings.HasSuffix(line, ".") {
		line += "."
	}
	return line + dash + " " + e.get("year") + "." + e.totalPages()
}

// renderPatent fills the "%" placeholder of the type template with the
// patent number, e.g. "Пат. % Российская Федерация".
func renderPatent(e *entry) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(e.get("type"), "%", `\No~`+e.get("number")) + ". ")
	b.WriteString(e.get("title") + " / ")
	b.WriteString(joinAuthors(e.authors, inventorName))
	b.WriteString(" ; заявитель и правообладатель " + e.get("assignee") + ".")
	b.WriteString(dash + ` \No~` + e.get("code"))
	b.WriteString(" ; заявл. " + date(e.get("dayfiled"), e.get("monthfiled"), e.get("yearfiled")))
	b.WriteString(" ; опубл. " + date(e.get("day"), e.get("month"), e.get("year")) + ".")
	return b.String()
}

func renderStandard(e *entry) string {
	return e.get("institution") + ". " + e.get("title") + "." + dash + " " + e.imprint() + e.totalPages()
}

func renderThesis(e *entry) string {
	var b strings.Builder
	b.WriteString(headName(e.authors[0]))
	b.WriteString(e.get("title") + " : " + e.get("type"))
	if e.has("code") {
		b.WriteString(" : " + e.get("code"))
	}
	b.WriteString(" / " + e.get("fullname") + "." + dash + " ")
	if e.has("address") {
		b.WriteString(e.address() + ", ")
	}
	b.WriteString(e.get("year") + ".")
	b.WriteString(e.totalPages())
	return b.String()
}

// renderElectronic keeps a single author as written and decomposes
// multiple authors like an article.
func renderElectronic(e *entry) string {
	const marker = " [Электронный ресурс]"
	var line string
	if len(e.groups) == 1 {
		line = e.get("title") + marker + " / " + e.groups[0]
	} else {
		line = e.byline(marker)
	}
	return line + "." + e.url()
}

func date(day, month, year string) string {
	return day + "." + month + "." + year
}
