package mcpserver

// UsageContract describes how LLM consumers should drive the bridge.
const UsageContract = `# WordPress Bridge Usage Contract

This server exposes a WordPress site's REST API as tools. Every call goes
straight to the remote site; nothing is cached and nothing is retried.

## Authentication flow

1. (optional) ` + "`test_connection`" + ` — verify the site is a reachable
   WordPress installation exposing the wp/v2 namespace.
2. ` + "`authenticate`" + ` — supply siteUrl, username, and a password or
   (preferred) an application password. This must succeed before any
   resource tool works; until then every call fails with
   "authentication: Not authenticated".
3. Credentials stay in memory for the life of the process. Re-run
   ` + "`authenticate`" + ` to switch sites or accounts.

## Conventions

- **IDs** are the remote WordPress numeric IDs. There is no local identity.
- **Pagination**: list tools accept ` + "`page`" + ` and ` + "`perPage`" + ` (max 100) and
  report ` + "`total`" + ` / ` + "`totalPages`" + ` from the site's pagination headers.
- **Rendered fields** (title, content, excerpt, caption) are flattened to
  plain strings in every response.
- **Bulk tools** (` + "`bulk_delete_media`" + `, ` + "`bulk_assign_categories`" + `,
  ` + "`bulk_assign_tags`" + `, ` + "`merge_categories`" + `) run sequentially and are not
  transactional: the result partitions succeeded and failed IDs, and a
  partial failure never rolls back completed items.
- **Errors** come back as an error result whose text names the failure
  kind (configuration, authentication, validation, remote). Remote
  failures carry the HTTP status and the raw response body as JSON.
- **Drafts** (` + "`save_draft`" + `, ` + "`load_draft`" + `, …) live in a local file on the
  bridge host, not on the WordPress site.

## Security notes

- ` + "`reset_user_password`" + ` only echoes a locally generated password when
  called with ` + "`revealPassword: true`" + `; otherwise supply ` + "`newPassword`" + `.
- ` + "`optimize_media`" + ` requires the bridge to be configured with an image
  compression API key; there is no local fallback.
`
