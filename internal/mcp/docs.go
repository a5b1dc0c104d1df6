package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `byggkoll tracks hours and material costs on construction projects.

Core concepts:
- Project: a site with an id, a code (display label, not unique), client and location.
- Worker: a person. Entries and materials name the worker by name, not id.
- Time entry: hours on a date against a project, with a work type.
- Material cost: an amount on a date against a project, optionally with a receipt.
- Session: the logged-in user. Login is local and accepts any email.

Workflow:
1) login (required first when the server runs with auth.require_login).
2) list_projects / list_workers to find ids and names.
3) add_entry / add_material to report; update_entry / delete_entry to correct.
4) project_cards, project_log, calendar and dashboard for summaries.
5) integrity_report finds entries that point at removed projects or misspelled workers.

A response with a "warning" field means the change was applied in memory but could
not be saved; call reload to see what storage actually holds.

Docs:
- byggkoll://docs/index
- byggkoll://docs/work-types
- byggkoll://docs/storage
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "byggkoll://docs/index",
		Name:        "docs_index",
		Title:       "byggkoll docs index",
		Description: "Entry point: tools by task and where to read more.",
		Content: `# byggkoll: Docs Index

## Tools by task

- Report time: ` + "`add_entry`" + `, ` + "`update_entry`" + `, ` + "`delete_entry`" + `, ` + "`list_entries`" + `.
- Book materials: ` + "`add_material`" + `, ` + "`delete_material`" + `, ` + "`list_materials`" + `.
- Administration: ` + "`add_project`" + `, ` + "`remove_project`" + `, ` + "`add_worker`" + `, ` + "`remove_worker`" + `.
- Views: ` + "`project_cards`" + `, ` + "`project_log`" + `, ` + "`calendar`" + `, ` + "`dashboard`" + `.
- Housekeeping: ` + "`integrity_report`" + `, ` + "`reload`" + `.

## Notes

- Removing a project or worker never touches existing entries or materials.
- Dates are ` + "`YYYY-MM-DD`" + `. Hours and amounts must be zero or more.
- Receipts are not returned by ` + "`list_materials`" + `; fetch them from ` + "`/attachments/{id}`" + ` on the HTTP transport. They are always sent as downloads.
`,
	},
	{
		URI:         "byggkoll://docs/work-types",
		Name:        "docs_work_types",
		Title:       "Work types",
		Description: "The fixed set of work type labels accepted by add_entry.",
		Content: `# Work types

| Label | Meaning |
|---|---|
| Normaltid | Normal hours |
| Övertid | Overtime |
| Restid | Travel time |
| Frånvaro | Absence |
| ÄTA-arbete | Change-order work (ändrings- och tilläggsarbete) |

Labels are stored exactly as written above.
`,
	},
	{
		URI:         "byggkoll://docs/storage",
		Name:        "docs_storage",
		Title:       "Storage model",
		Description: "How collections are persisted and what happens when storage fails.",
		Content: `# Storage model

Each collection is saved in full under its own slot after every change:
` + "`bygg_session`" + `, ` + "`bygg_projects`" + `, ` + "`bygg_workers`" + `, ` + "`bygg_entries`" + `, ` + "`bygg_materials`" + `.

- An empty or unreadable slot loads as its default (built-in projects and workers, empty lists otherwise).
- There is no transaction across slots. Two processes on the same storage overwrite each other per slot.
- A failed save keeps the change in memory and is reported as a warning.
- The session slot never contains a password.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
