package main

import "fmt"

func (cli *commandLine) stats() error {
	doc, err := cli.readDocument()
	if err != nil {
		return err
	}

	assignments := make(map[string]int, len(doc.Assignments))
	for _, asg := range doc.Assignments {
		assignments[asg.ID] = 0
	}
	var dangling int
	for _, sub := range doc.Submissions {
		if _, ok := assignments[sub.AssignmentID]; ok {
			assignments[sub.AssignmentID]++
		} else {
			dangling++
		}
	}

	_, _ = fmt.Fprintf(cli.out, "assignments: %d\n", len(doc.Assignments))
	_, _ = fmt.Fprintf(cli.out, "submissions: %d\n", len(doc.Submissions))
	_, _ = fmt.Fprintf(cli.out, "submissions without assignment: %d\n", dangling)
	for _, asg := range doc.Assignments {
		_, _ = fmt.Fprintf(cli.out, "  %s %q due %s: %d submissions\n", asg.ID, asg.Title, asg.DueDate, assignments[asg.ID])
	}
	return nil
}
