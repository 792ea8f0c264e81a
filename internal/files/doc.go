// Package files finds and checks the files HR Pulse reads and writes on disk:
// personnel workbooks handed to the report CLI and the CSV reports it leaves
// in the reports directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.ExecutableDir)
//	workbooks, err := discovery.FindWorkbooks("imports")
//
//	if err := files.ValidateWorkbookFile(path); err != nil {
//	    return err
//	}
package files
