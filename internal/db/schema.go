package db

// schema is the full DDL for the applicant-tracking tables. AI-derived
// analysis fields live directly on the applicants row; there is no separate
// match-history table, so re-analysis overwrites in place.
const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS jobs (
    id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title                TEXT NOT NULL,
    description          TEXT NOT NULL DEFAULT '',
    skills               TEXT[] NOT NULL DEFAULT '{}',
    min_experience_years INT NOT NULL DEFAULT 0,
    education_level      TEXT NOT NULL DEFAULT '',
    open_from            TIMESTAMPTZ,
    open_until           TIMESTAMPTZ,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS applicants (
    id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    first_name            TEXT NOT NULL,
    last_name             TEXT NOT NULL,
    email                 TEXT NOT NULL DEFAULT '',
    phone                 TEXT NOT NULL DEFAULT '',
    job_id                UUID REFERENCES jobs(id) ON DELETE SET NULL,
    cv_url                TEXT,
    status                TEXT NOT NULL DEFAULT 'Applied',
    matching_score        INT NOT NULL DEFAULT 0,
    ai_summary            TEXT NOT NULL DEFAULT '',
    overview              TEXT NOT NULL DEFAULT '',
    strengths             TEXT[] NOT NULL DEFAULT '{}',
    potential_gaps        TEXT[] NOT NULL DEFAULT '{}',
    potential_prediction  TEXT NOT NULL DEFAULT '',
    personality_inference TEXT NOT NULL DEFAULT '',
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_applicants_job_id ON applicants(job_id);
CREATE INDEX IF NOT EXISTS idx_applicants_status ON applicants(status);
`
