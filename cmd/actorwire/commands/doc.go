package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/docs"
)

var docHTML bool

var docCmd = &cobra.Command{
	Use:   "doc <actor>[.<method>]",
	Short: "Describe an actor's methods, parameters, and return types",
	Long: `doc prints a reference page for an actor, or for a single method
when the <actor>.<method> form is used:

  actorwire doc greeter
  actorwire doc greeter.add_two_ints
  actorwire doc greeter --html > greeter.html

With --html, each docstring is rendered from Markdown to HTML.`,
	Args: cobra.ExactArgs(1),
	RunE: runDoc,
}

func init() {
	docCmd.Flags().BoolVar(&docHTML, "html", false,
		"Render docstrings from Markdown to an HTML page")
}

func runDoc(cmd *cobra.Command, args []string) error {
	actorName, methodName, hasMethod := strings.Cut(args[0], ".")

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	mapping, err := c.Doc(actorName)
	if err != nil {
		return err
	}

	info, err := mappingToActorInfo(mapping)
	if err != nil {
		return fmt.Errorf("rendering actor info: %w", err)
	}

	if hasMethod {
		narrowed, ok := docs.Select(info, methodName)
		if !ok {
			return fmt.Errorf("actor %q has no method %q", actorName, methodName)
		}
		info = narrowed
	}

	switch {
	case docHTML:
		page, err := docs.PageHTML(info)
		if err != nil {
			return err
		}
		fmt.Print(page)
	case outputFormat == "json":
		if hasMethod {
			methods, _ := mapping["methods"].(map[string]any)
			return outputJSON(methods[methodName])
		}
		return outputJSON(mapping)
	default:
		fmt.Print(docs.Page(info))
	}
	return nil
}

// mappingToActorInfo rebuilds an *actorinfo.ActorInfo from the raw mapping
// core.info() sends over the wire, so docs.Page can render it the same way
// whether it was built locally or fetched from a remote server.
func mappingToActorInfo(mapping map[string]any) (*actorinfo.ActorInfo, error) {
	name, _ := mapping["name"].(string)
	modulePath, _ := mapping["module_path"].(string)
	moduleID, _ := mapping["module_id"].(string)

	methods := make(map[string]*actorinfo.MethodInfo)
	rawMethods, _ := mapping["methods"].(map[string]any)
	for methodName, rawMethod := range rawMethods {
		m, ok := rawMethod.(map[string]any)
		if !ok {
			continue
		}

		doc, _ := m["doc"].(string)
		resultTag, _ := m["result_type"].(string)

		var params []actorinfo.Param
		rawParams, _ := m["params"].([]any)
		for _, rp := range rawParams {
			pair, ok := rp.([]any)
			if !ok || len(pair) != 2 {
				continue
			}
			pname, _ := pair[0].(string)
			ptag, _ := pair[1].(string)
			params = append(params, actorinfo.Param{
				Name: pname,
				Tag:  actorinfo.TypeTag(ptag),
			})
		}

		methods[methodName] = &actorinfo.MethodInfo{
			Doc:       doc,
			Params:    params,
			ResultTag: actorinfo.TypeTag(resultTag),
		}
	}

	return &actorinfo.ActorInfo{
		Name:       name,
		ModulePath: modulePath,
		ModuleID:   moduleID,
		Methods:    methods,
	}, nil
}
