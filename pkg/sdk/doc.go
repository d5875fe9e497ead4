// Package jobmatch embeds the internship matching pipeline in a Go program,
// backed by Redis with the search and JSON modules.
//
//	client, _ := jobmatch.New(ctx,
//	    jobmatch.WithRedis("localhost:6379", ""),
//	    jobmatch.WithLLM(os.Getenv("OPENROUTER_API_KEY"), ""),
//	)
//	defer client.Close()
//
//	_, _ = client.Ingest(ctx, jobsFile)
//	jobs, _ := client.Search(ctx, student, "data science")
//	res, _ := client.Match(ctx, []jobmatch.Student{student}, "data science")
//	fmt.Println(res.Analysis)
package jobmatch
