package database

// schema holds the DDL for every store. The unique constraints on follows
// and likes back the conditional-write toggles: a duplicate insert is a
// no-op at the store level, never an error surfaced to callers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		avatar TEXT NOT NULL,
		cover_image TEXT,
		password_hash TEXT NOT NULL,
		refresh_token TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx
		ON users (LOWER(username))`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		owner UUID NOT NULL UNIQUE REFERENCES users(id),
		first_name TEXT NOT NULL DEFAULT 'First',
		last_name TEXT NOT NULL DEFAULT 'Name',
		bio TEXT NOT NULL DEFAULT '',
		dob DATE NOT NULL,
		location TEXT NOT NULL DEFAULT 'Earth',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		owner UUID NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS posts_owner_idx ON posts (owner)`,

	`CREATE TABLE IF NOT EXISTS post_images (
		post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		position INT NOT NULL,
		url TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		PRIMARY KEY (post_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS follows (
		id UUID PRIMARY KEY,
		follower_id UUID NOT NULL REFERENCES users(id),
		followee_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (follower_id, followee_id),
		CHECK (follower_id <> followee_id)
	)`,

	`CREATE INDEX IF NOT EXISTS follows_followee_idx ON follows (followee_id)`,

	`CREATE TABLE IF NOT EXISTS likes (
		id UUID PRIMARY KEY,
		post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		liked_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (post_id, liked_by)
	)`,

	`CREATE INDEX IF NOT EXISTS likes_post_idx ON likes (post_id)`,
}
