package database

import "strings"

// LikeEscape is the ESCAPE clause matching ContainsPattern; append it to every LIKE using the pattern.
const LikeEscape = ` ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns user input into a lower-case "contains" pattern with wildcards escaped.
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}
