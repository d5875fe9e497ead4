package domain

// KeyPrefix is the namespace for every key the service writes.
const KeyPrefix = "jobmatch:"

// JobKeyPrefix is the key prefix of indexed job documents.
const JobKeyPrefix = KeyPrefix + "jobs:"

// DefaultJobIndex is the FT index name over job documents.
const DefaultJobIndex = KeyPrefix + "jobs:idx"
