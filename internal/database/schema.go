package database

import "strings"

// The WordPress tables the migration reads and writes, in SQLite dialect. A real
// site runs MySQL with its own schema; these exist for local databases and tests.
// Columns WordPress declares NOT NULL without a default have none here either.
const DB_SCHEMA = `CREATE TABLE IF NOT EXISTS {prefix}posts (
	ID integer PRIMARY KEY AUTOINCREMENT,
	post_author integer NOT NULL DEFAULT 0,
	post_date text NOT NULL DEFAULT '',
	post_date_gmt text NOT NULL,
	post_content text NOT NULL DEFAULT '',
	post_title text NOT NULL DEFAULT '',
	post_excerpt text NOT NULL DEFAULT '',
	post_status text NOT NULL DEFAULT 'publish',
	post_name text NOT NULL DEFAULT '',
	to_ping text NOT NULL,
	pinged text NOT NULL,
	post_modified text NOT NULL,
	post_modified_gmt text NOT NULL,
	post_content_filtered text NOT NULL,
	post_type text NOT NULL DEFAULT 'post',
	guid text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS {prefix}postmeta (
	meta_id integer PRIMARY KEY AUTOINCREMENT,
	post_id integer NOT NULL DEFAULT 0,
	meta_key text,
	meta_value text
);

CREATE TABLE IF NOT EXISTS {prefix}terms (
	term_id integer PRIMARY KEY AUTOINCREMENT,
	name text NOT NULL DEFAULT '',
	slug text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS {prefix}term_taxonomy (
	term_taxonomy_id integer PRIMARY KEY AUTOINCREMENT,
	term_id integer NOT NULL DEFAULT 0,
	taxonomy text NOT NULL DEFAULT '',
	description text NOT NULL,
	parent integer NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS {prefix}term_relationships (
	object_id integer NOT NULL DEFAULT 0,
	term_taxonomy_id integer NOT NULL DEFAULT 0,
	PRIMARY KEY (object_id, term_taxonomy_id)
);
`

// Tables of the Velocity theme and WooCommerce that hold orders outside of posts.
const DB_LEGACY_SCHEMA = "CREATE TABLE IF NOT EXISTS `{prefix}order` (" + `
	id integer PRIMARY KEY AUTOINCREMENT,
	invoice text,
	status text,
	date text,
	id_pembeli integer,
	total text,
	resi text,
	pembayaran text,
	detail text
);

CREATE TABLE IF NOT EXISTS {prefix}vd_city (
	city_id integer PRIMARY KEY,
	city_name text,
	province text,
	postal_code text
);

CREATE TABLE IF NOT EXISTS {prefix}vd_subdistricts (
	subdistrict_id integer PRIMARY KEY,
	subdistrict_name text,
	city_id integer
);

CREATE TABLE IF NOT EXISTS {prefix}woocommerce_order_items (
	order_item_id integer PRIMARY KEY AUTOINCREMENT,
	order_item_name text NOT NULL DEFAULT '',
	order_item_type text NOT NULL DEFAULT '',
	order_id integer NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS {prefix}woocommerce_order_itemmeta (
	meta_id integer PRIMARY KEY AUTOINCREMENT,
	order_item_id integer NOT NULL DEFAULT 0,
	meta_key text,
	meta_value text
);
`

func Schema(prefix string) string {
	return strings.ReplaceAll(DB_SCHEMA, "{prefix}", prefix)
}

func LegacySchema(prefix string) string {
	return strings.ReplaceAll(DB_LEGACY_SCHEMA, "{prefix}", prefix)
}
