package mcpserver

// NoteFormatContract describes the canonical Markdown note format that
// LLM consumers should follow when creating or updating notes.
const NoteFormatContract = `# Othala Note Format Contract

Every Markdown note stored in Othala MUST follow this structure.

## Folder hierarchy

The vault is a curriculum with up to four folder levels:

` + "```" + `
Program/Course/Class/Module/note.md
` + "```" + `

A note whose filename (minus .md) matches its folder name is that folder's
**index note** (e.g. ` + "`" + `MBA/Finance/Finance.md` + "`" + ` is the Finance course index).
Everything else is a content note.

## Managed frontmatter — do not set these yourself

The server derives these fields from the note's path and rewrites them on
every save and reconcile pass:

- ` + "`" + `program` + "`" + `, ` + "`" + `course` + "`" + `, ` + "`" + `class` + "`" + `, ` + "`" + `module` + "`" + ` — the enclosing folder names,
  written verbatim, only down to the note's own depth
- ` + "`" + `index-type` + "`" + ` — ` + "`" + `main` + "`" + `, ` + "`" + `program` + "`" + `, ` + "`" + `course` + "`" + `, ` + "`" + `class` + "`" + `, or ` + "`" + `module` + "`" + `;
  present on index notes only

Hand-written values for these keys are overwritten; leaving them out is
fine. All other frontmatter keys pass through untouched, in order.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # OPTIONAL – falls back to the first H1
tags:                               # OPTIONAL – YAML list; used for filtering
  - tag-one
  - tag-two
created: 2025-01-15                 # OPTIONAL – ISO-8601 date or datetime
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes (without .md extension).
Use [[target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **Frontmatter is optional but recommended.** When present, the ` + "```" + `---` + "```" + `
   fences must be the first thing in the file (no leading blank lines).
2. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `week-1` + "`" + `, ` + "`" + `case-study` + "`" + `).
3. **Wikilinks** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. The target is the
   filename stem (no ` + "`" + `.md` + "`" + ` extension, path separators OK: ` + "`" + `[[Course/note]]` + "`" + `).
4. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
5. **Encoding** is UTF-8 with a trailing newline.
6. **No HTML** unless absolutely necessary; prefer Markdown equivalents.
7. **Folder names become metadata.** Renaming or moving a folder changes the
   hierarchy fields of every note beneath it on the next reconcile pass, so
   keep folder names presentation-ready.

## Course resources

- Slides, worksheets, and recordings live in the shared ` + "`" + `resources/` + "`" + `
  directory (flat, no sub-folders), uploaded via the REST API.
- Reference them with an absolute path: ` + "`" + `![worksheet](/resources/week1.pdf)` + "`" + `.
- Do **not** use relative paths like ` + "`" + `./resources/...` + "`" + `.

## Example

` + "```" + `markdown
---
program: MBA
course: Finance
class: Week 1
title: Discounted cash flow
tags:
  - week-1
---

# Discounted cash flow

Preparation for [[Finance]] seminar.

- Work through [[Week 1/case-study|the case study]]
- Slides: ![DCF slides](/resources/dcf-week1.pdf)
` + "```" + `

(The ` + "`" + `program` + "`" + `, ` + "`" + `course` + "`" + `, and ` + "`" + `class` + "`" + ` lines above are shown for
completeness; the server maintains them for you.)
`
