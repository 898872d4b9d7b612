// Package demo synthesizes a canned prompt from a description when the
// generation endpoint cannot be used.
package demo

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTopic stands in when nothing is left after stripping
const DefaultTopic = "the topic you mentioned"

var (
	leadingPrefix = regexp.MustCompile(`(?i)^(please |can you |help me |i want to |i need to |how to )`)
	taskVerbs     = regexp.MustCompile(`(?i)\b(analyze|compare|explain|understand|write|create|improve|optimize|strategy|plan)\b`)
)

type branch struct {
	keywords []string
	render   func(topic string) string
}

var branches = []branch{
	{[]string{"analyze", "analysis"}, func(topic string) string {
		return fmt.Sprintf(`Please conduct a comprehensive analysis of %s.

Structure your analysis as follows:
1. Current state and key characteristics
2. Main challenges and opportunities
3. Contributing factors and root causes
4. Potential solutions and recommendations
5. Implementation considerations and next steps

Provide specific examples, data points where relevant, and actionable insights.`, topic)
	}},
	{[]string{"compare"}, func(topic string) string {
		return fmt.Sprintf(`Please provide a detailed comparison of %s.

Organize the comparison as follows:
1. Brief overview of each option
2. Key similarities
3. Key differences across cost, performance, and usability
4. Strengths and weaknesses of each
5. Recommendation for specific use cases

Use a table where it helps and support each point with concrete examples.`, topic)
	}},
	{[]string{"explain"}, func(topic string) string {
		return fmt.Sprintf(`Please explain %s clearly and accurately.

Cover the following:
1. A plain-language definition
2. How it works, step by step
3. Why it matters
4. A concrete, real-world example
5. Common misconceptions to avoid

Assume an intelligent reader who is new to the subject.`, topic)
	}},
	{[]string{"strategy"}, func(topic string) string {
		return fmt.Sprintf(`Please develop a practical strategy for %s.

Include:
1. Goals and measurable success criteria
2. Current situation and constraints
3. Strategic options with trade-offs
4. Recommended plan with milestones and owners
5. Risks, mitigations, and how progress will be reviewed

Keep recommendations specific and actionable.`, topic)
	}},
	{[]string{"write"}, func(topic string) string {
		return fmt.Sprintf(`Please write a well-crafted piece about %s.

Follow these requirements:
1. Identify the intended audience and purpose
2. Open with a strong hook
3. Develop the main points in a logical order
4. Use vivid, concrete details and examples
5. Close with a memorable conclusion

Match the tone to the audience and keep the language clear.`, topic)
	}},
	{[]string{"improve"}, func(topic string) string {
		return fmt.Sprintf(`Please suggest concrete improvements for %s.

Address the following:
1. Current weaknesses and their impact
2. Quick wins that can be applied immediately
3. Longer-term improvements
4. Expected benefits of each change
5. How to measure whether the improvements worked

Prioritize suggestions by impact and effort.`, topic)
	}},
}

func defaultPrompt(topic string) string {
	return fmt.Sprintf(`Please provide a comprehensive response about %s.

Address the following aspects:
1. Overview and key points
2. Important details and context
3. Practical implications and applications
4. Relevant examples or case studies
5. Best practices and recommendations

Structure your response clearly and provide actionable insights.`, topic)
}

// Generate returns the demo prompt for description. The first matching keyword
// branch wins; descriptions matching none get the general template.
func Generate(description string) string {
	lower := strings.ToLower(description)
	topic := ExtractMainTopic(description)

	for _, b := range branches {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.render(topic)
			}
		}
	}
	return defaultPrompt(topic)
}

// ExtractMainTopic strips one leading request phrase and the task verbs from
// description and collapses the remaining whitespace.
func ExtractMainTopic(description string) string {
	topic := leadingPrefix.ReplaceAllString(strings.TrimSpace(description), "")
	topic = taskVerbs.ReplaceAllString(topic, "")
	topic = strings.Join(strings.Fields(topic), " ")
	if topic == "" {
		return DefaultTopic
	}
	return topic
}
