package hadronia

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var groupRegexp = regexp.MustCompile(`\(([^()]+)\)`)

// Requirement asks for Count particles of type Pid inside a group.
type Requirement struct {
	Pid   int
	Count int
}

// Group is one parenthesized part of a criteria pattern. Requirements are
// sorted by particle code.
type Group []Requirement

// Pattern is a parsed criteria string such as "(211) + (22 22)".
type Pattern struct {
	Source string
	Groups []Group
}

// ParsePattern parses a criteria string. Only the parenthesized groups are
// significant; separators such as "+" are ignored.
func ParsePattern(criteria string) (Pattern, error) {
	pattern := Pattern{Source: criteria}
	matches := groupRegexp.FindAllStringSubmatch(criteria, -1)
	if len(matches) == 0 {
		return pattern, &ErrMalformedPattern{Pattern: criteria, Reason: "no particle group found"}
	}
	for _, match := range matches {
		group, err := parseGroup(criteria, match[1])
		if err != nil {
			return pattern, err
		}
		pattern.Groups = append(pattern.Groups, group)
	}
	return pattern, nil
}

func parseGroup(criteria string, body string) (Group, error) {
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		return nil, &ErrMalformedPattern{Pattern: criteria, Reason: "empty group"}
	}
	counts := make(map[int]int)
	for _, token := range tokens {
		pid, err := strconv.Atoi(token)
		if err != nil {
			return nil, &ErrMalformedPattern{Pattern: criteria, Token: token, Reason: "not an integer particle code"}
		}
		counts[pid]++
	}
	group := make(Group, 0, len(counts))
	for pid, count := range counts {
		group = append(group, Requirement{Pid: pid, Count: count})
	}
	sort.Slice(group, func(i, j int) bool {
		return group[i].Pid < group[j].Pid
	})
	return group, nil
}

func (g Group) String() string {
	tokens := make([]string, 0, len(g))
	for _, r := range g {
		for i := 0; i < r.Count; i++ {
			tokens = append(tokens, strconv.Itoa(r.Pid))
		}
	}
	return fmt.Sprintf("(%s)", strings.Join(tokens, " "))
}

func (p Pattern) String() string {
	groups := make([]string, len(p.Groups))
	for i, g := range p.Groups {
		groups[i] = g.String()
	}
	return strings.Join(groups, " + ")
}
