package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Action Log
-- Append-only record of user actions; the condition evaluator reads it,
-- nothing ever updates or deletes rows.
CREATE TABLE IF NOT EXISTS user_actions (
    action_id CHAR(24) PRIMARY KEY,
    user_id VARCHAR(64) NOT NULL,
    action_type VARCHAR(64) NOT NULL,
    target_type VARCHAR(64) NOT NULL DEFAULT '',
    target_id VARCHAR(64) NOT NULL DEFAULT '',
    custom JSONB NOT NULL DEFAULT '{}',
    occurred_at TIMESTAMPTZ NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_user_actions_user_occurred
    ON user_actions (user_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_user_actions_target
    ON user_actions (target_type, target_id);

-- Events (campaigns)
CREATE TABLE IF NOT EXISTS events (
    event_id CHAR(24) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
    condition_ids TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT events_window CHECK (start_date <= end_date)
);

-- Conditions
-- Owned by their event; match_filter stores the filter template with
-- placeholders in wire form.
CREATE TABLE IF NOT EXISTS conditions (
    condition_id CHAR(24) PRIMARY KEY,
    event_id CHAR(24) NOT NULL REFERENCES events(event_id) ON DELETE CASCADE,
    action_type VARCHAR(64) NOT NULL,
    aggregation_mode VARCHAR(8) NOT NULL,
    sum_field VARCHAR(200) NOT NULL DEFAULT '',
    target_threshold NUMERIC NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
    match_filter JSONB NOT NULL DEFAULT '{}',
    window_start TIMESTAMPTZ NOT NULL,
    window_end TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT conditions_window CHECK (window_start <= window_end)
);

CREATE INDEX IF NOT EXISTS idx_conditions_event ON conditions (event_id);

-- Rewards
CREATE TABLE IF NOT EXISTS rewards (
    reward_id CHAR(24) PRIMARY KEY,
    event_id CHAR(24) NOT NULL REFERENCES events(event_id) ON DELETE CASCADE,
    name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    reward_type VARCHAR(32) NOT NULL,
    amount NUMERIC NOT NULL DEFAULT 0,
    metadata JSONB NOT NULL DEFAULT '{}',
    window_start TIMESTAMPTZ NOT NULL,
    window_end TIMESTAMPTZ NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT rewards_window CHECK (window_start <= window_end)
);

CREATE INDEX IF NOT EXISTS idx_rewards_event ON rewards (event_id);

-- Reward Grant Ledger
-- Append-only history. The partial unique index is the authority for
-- the one-blocking-grant-per-(user,event) invariant: concurrent inserts
-- race here and exactly one wins.
CREATE TABLE IF NOT EXISTS reward_grants (
    grant_id CHAR(24) PRIMARY KEY,
    user_id VARCHAR(64) NOT NULL,
    event_id CHAR(24) NOT NULL REFERENCES events(event_id),
    reward_id CHAR(24) NOT NULL REFERENCES rewards(reward_id),
    reward_snapshot JSONB NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'COMPLETED',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_reward_grants_user_event_blocking
    ON reward_grants (user_id, event_id)
    WHERE status IN ('PENDING', 'COMPLETED');

CREATE INDEX IF NOT EXISTS idx_reward_grants_user ON reward_grants (user_id);

-- Audit Trail of bus events
CREATE TABLE IF NOT EXISTS audit_log (
    id BIGSERIAL PRIMARY KEY,
    event_type VARCHAR(100) NOT NULL,
    user_id VARCHAR(64),
    payload JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_type_created ON audit_log (event_type, created_at);
CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log (created_at);
`
