package main

import "fmt"

type versionCmd struct {
	r *root
}

func (v *versionCmd) Run() error {
	fmt.Printf("%s %s\n", v.r.Program(), buildVersion())
	return nil
}
