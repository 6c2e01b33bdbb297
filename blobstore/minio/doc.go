// Package minio stores attribute archives in MinIO or any S3-compatible server
// (Ceph, Garage, SeaweedFS) through the official MinIO client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "meshes/")
//	archives := persistence.NewStore(store)
package minio
